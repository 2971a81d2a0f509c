package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

func TestPrincipal_CanAccessBranch(t *testing.T) {
	admin := entity.Principal{UserID: "u1", Role: entity.RoleAdmin}
	seller := entity.Principal{UserID: "u2", Role: entity.RoleVendedor, HomeBranchID: "b1"}
	sellerNoBranch := entity.Principal{UserID: "u3", Role: entity.RoleVendedor}
	unknown := entity.Principal{UserID: "u4", Role: "bodeguero", HomeBranchID: "b1"}

	assert.True(t, admin.CanAccessBranch("cualquiera"))
	assert.True(t, seller.CanAccessBranch("b1"))
	assert.False(t, seller.CanAccessBranch("b2"))
	assert.False(t, sellerNoBranch.CanAccessBranch(""))
	assert.False(t, unknown.CanAccessBranch("b1"))
}
