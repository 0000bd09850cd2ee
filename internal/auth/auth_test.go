package auth

import (
	"testing"
	"time"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	tenantID := int64(7)
	locationID := int64(3)
	subRole := models.SubRoleVentas
	user := &models.User{
		ID:         42,
		TenantID:   &tenantID,
		Email:      "cashier@example.com",
		Role:       models.RoleEmployee,
		SubRole:    &subRole,
		LocationID: &locationID,
	}

	token, err := manager.IssueToken(user)
	require.NoError(t, err)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, int64(7), *claims.TenantID)
	assert.Equal(t, models.RoleEmployee, claims.Role)
	require.NotNil(t, claims.SubRole)
	assert.Equal(t, models.SubRoleVentas, *claims.SubRole)
	require.NotNil(t, claims.LocationID)
	assert.Equal(t, int64(3), *claims.LocationID)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.IssueToken(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsExpired(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute)

	token, err := manager.IssueToken(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = manager.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsGarbage(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	_, err := manager.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22hunter22"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}
