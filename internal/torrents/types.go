// Package torrents defines the torrent and user record types shared by the
// search backends.
package torrents

import "time"

// Flag bits stored in Torrent.Flags.
const (
	FlagAnonymous = 1 << iota
	FlagHidden
	FlagTrusted
	FlagRemake
	FlagComplete
	FlagDeleted
)

// Torrent is a single listed torrent record.
type Torrent struct {
	ID             int64     `json:"id"`
	DisplayName    string    `json:"displayName"`
	Filesize       int64     `json:"filesize"`
	Flags          int       `json:"-"`
	UploaderID     int64     `json:"uploaderId,omitempty"`
	MainCategoryID int       `json:"mainCategoryId"`
	SubCategoryID  int       `json:"subCategoryId"`
	CommentCount   int       `json:"commentCount"`
	SeedCount      int       `json:"seeders"`
	LeechCount     int       `json:"leechers"`
	DownloadCount  int       `json:"downloads"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Anonymous reports whether the uploader chose not to be credited.
func (t *Torrent) Anonymous() bool { return t.Flags&FlagAnonymous != 0 }

// Hidden reports whether the torrent is hidden from public listings.
func (t *Torrent) Hidden() bool { return t.Flags&FlagHidden != 0 }

// Trusted reports whether the torrent was uploaded by a trusted user.
func (t *Torrent) Trusted() bool { return t.Flags&FlagTrusted != 0 }

// Remake reports whether the torrent is flagged as a remake.
func (t *Torrent) Remake() bool { return t.Flags&FlagRemake != 0 }

// Complete reports whether the torrent is a complete batch.
func (t *Torrent) Complete() bool { return t.Flags&FlagComplete != 0 }

// Deleted reports whether the torrent has been soft-deleted.
func (t *Torrent) Deleted() bool { return t.Flags&FlagDeleted != 0 }

// SetFlag sets or clears a single flag bit.
func (t *Torrent) SetFlag(flag int, on bool) {
	if on {
		t.Flags |= flag
	} else {
		t.Flags &^= flag
	}
}

// User is an account that can upload and view torrents.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}
