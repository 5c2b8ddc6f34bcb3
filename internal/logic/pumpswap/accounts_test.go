package pumpswap

import (
	"testing"

	"pumpswap-indexer-sol/internal/consts"
	"pumpswap-indexer-sol/internal/types"

	"github.com/stretchr/testify/assert"
)

// mkAccounts 生成 n 个互不相同的账户（首字节区分），测试辅助
func mkAccounts(n int) []types.Pubkey {
	keys := make([]types.Pubkey, n)
	for i := range keys {
		keys[i][0] = byte(i + 1)
	}
	return keys
}

func TestBindAccounts(t *testing.T) {
	r := len(swapRoles.required) // 17
	o := len(swapRoles.optional) // 2

	// 全量账户：必选 + 可选全部绑定
	t.Run("full account list", func(t *testing.T) {
		accounts := mkAccounts(r + o)
		set, derr := bindAccounts(accounts, swapRoles)
		assert.Nil(t, derr)
		assert.Equal(t, r+o, set.Len())
		assert.Equal(t, accounts[0], set.Get(RolePool))
		assert.Equal(t, accounts[1], set.Get(RoleUser))
		assert.Equal(t, accounts[r], set.Get(RoleCoinCreatorVaultAta))
		assert.True(t, set.Has(RoleCoinCreatorVaultAta))
		assert.True(t, set.Has(RoleCoinCreatorVaultAuthority))
	})

	// 恰好必选数量：可选角色以占位值补齐
	t.Run("required only", func(t *testing.T) {
		set, derr := bindAccounts(mkAccounts(r), swapRoles)
		assert.Nil(t, derr)
		assert.Equal(t, r+o, set.Len())
		assert.Equal(t, consts.InvalidAddress, set.Get(RoleCoinCreatorVaultAta))
		assert.Equal(t, consts.InvalidAddress, set.Get(RoleCoinCreatorVaultAuthority))
		assert.False(t, set.Has(RoleCoinCreatorVaultAta))
	})

	// 必选 + 部分可选：按声明顺序绑定，剩余可选补占位值
	t.Run("partial optional", func(t *testing.T) {
		accounts := mkAccounts(r + 1)
		set, derr := bindAccounts(accounts, swapRoles)
		assert.Nil(t, derr)
		assert.Equal(t, accounts[r], set.Get(RoleCoinCreatorVaultAta))
		assert.Equal(t, consts.InvalidAddress, set.Get(RoleCoinCreatorVaultAuthority))
	})

	// 超出 required+optional 的账户静默丢弃，不报错
	t.Run("extra accounts discarded", func(t *testing.T) {
		set, derr := bindAccounts(mkAccounts(r+o+5), swapRoles)
		assert.Nil(t, derr)
		assert.Equal(t, r+o, set.Len())
	})

	// 低于必选数量：InsufficientAccounts
	t.Run("insufficient accounts", func(t *testing.T) {
		_, derr := bindAccounts(mkAccounts(r-1), swapRoles)
		assert.NotNil(t, derr)
		assert.Equal(t, ErrKindInsufficientAccounts, derr.Kind)
	})

	// 未在 spec 中声明的角色返回占位值
	t.Run("undefined role", func(t *testing.T) {
		set, derr := bindAccounts(mkAccounts(r), swapRoles)
		assert.Nil(t, derr)
		assert.Equal(t, consts.InvalidAddress, set.Get(RoleLpMint))
		assert.False(t, set.Has(RoleLpMint))
	})
}
