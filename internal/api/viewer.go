package api

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/tidebay/tidebay/internal/search"
)

// ViewerClaims are the JWT claims carried by a viewer token. The subject is
// the user id.
type ViewerClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// ViewerMiddleware resolves the viewer identity for each request from an
// optional bearer token. Requests without a valid token proceed as
// anonymous; the search core decides what an anonymous viewer may see.
func ViewerMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(search.ViewerContextKey, resolveViewer(c, secret))
			return next(c)
		}
	}
}

func resolveViewer(c echo.Context, secret []byte) search.Viewer {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || len(secret) == 0 {
		return search.Viewer{}
	}

	claims := &ViewerClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return search.Viewer{}
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID < 1 {
		return search.Viewer{}
	}

	return search.Viewer{ID: userID, Admin: claims.Admin}
}
