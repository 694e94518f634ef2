package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgAuth "github.com/beanpass/beanpass-backend/pkg/auth"
	"github.com/beanpass/beanpass-backend/pkg/config"
	"github.com/beanpass/beanpass-backend/pkg/enums"
)

var testJWT = config.JWTConfig{Secret: "middleware-test-secret", Issuer: "beanpass-test"}

func mintToken(t *testing.T, role enums.UserRole, shopID *uuid.UUID) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.Identity{
		UserID: userID,
		Role:   role,
		ShopID: shopID,
	}, time.Hour)
	require.NoError(t, err)
	return userID, token
}

func seenIdentity(t *testing.T, handler func(http.Handler) http.Handler, authorization string) (int, string, string, string) {
	t.Helper()

	var userID, role, shopID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = UserIDFromContext(r.Context())
		role = RoleFromContext(r.Context())
		shopID = ShopIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler(next).ServeHTTP(rec, req)
	return rec.Code, userID, role, shopID
}

func TestAuthRejectsMissingToken(t *testing.T) {
	code, _, _, _ := seenIdentity(t, Auth(testJWT, nil), "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	code, _, _, _ := seenIdentity(t, Auth(testJWT, nil), "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthSeedsIdentity(t *testing.T) {
	shopID := uuid.New()
	userID, token := mintToken(t, enums.UserRoleShopOperator, &shopID)

	code, gotUser, gotRole, gotShop := seenIdentity(t, Auth(testJWT, nil), "Bearer "+token)
	require.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, userID.String(), gotUser)
	assert.Equal(t, "shop_operator", gotRole)
	assert.Equal(t, shopID.String(), gotShop)
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	code, gotUser, _, _ := seenIdentity(t, OptionalAuth(testJWT, nil), "")
	require.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, gotUser)
}

func TestOptionalAuthStillRejectsBadToken(t *testing.T) {
	code, _, _, _ := seenIdentity(t, OptionalAuth(testJWT, nil), "Bearer broken")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRequireRole(t *testing.T) {
	_, customerToken := mintToken(t, enums.UserRoleCustomer, nil)
	_, operatorToken := mintToken(t, enums.UserRoleShopOperator, nil)

	gate := func(next http.Handler) http.Handler {
		return Auth(testJWT, nil)(RequireRole("shop_operator", nil)(next))
	}

	code, _, _, _ := seenIdentity(t, gate, "Bearer "+customerToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _, _, _ = seenIdentity(t, gate, "Bearer "+operatorToken)
	assert.Equal(t, http.StatusNoContent, code)
}
