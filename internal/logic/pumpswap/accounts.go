package pumpswap

import (
	"pumpswap-indexer-sol/internal/consts"
	"pumpswap-indexer-sol/internal/types"
)

// Role 表示账户在指令中的语义角色。绑定纯按位置进行：
// 必选前缀逐位对应，可选后缀按声明顺序补齐，超出部分直接丢弃。
// 绑定不校验账户内容（是否真是某个 program / mint），那是链上程序的职责。
type Role uint8

const (
	RolePool Role = iota
	RoleUser
	RoleGlobalConfig
	RoleBaseMint
	RoleQuoteMint
	RoleUserBaseTokenAccount
	RoleUserQuoteTokenAccount
	RolePoolBaseTokenAccount
	RolePoolQuoteTokenAccount
	RoleProtocolFeeRecipient
	RoleProtocolFeeRecipientTokenAccount
	RoleBaseTokenProgram
	RoleQuoteTokenProgram
	RoleSystemProgram
	RoleAssociatedTokenProgram
	RoleEventAuthority
	RoleProgram
	RoleCoinCreatorVaultAta
	RoleCoinCreatorVaultAuthority
	RoleCreator
	RoleLpMint
	RoleUserPoolTokenAccount
	RoleTokenProgram
	RoleToken2022Program
)

var roleNames = [...]string{
	"pool",
	"user",
	"global_config",
	"base_mint",
	"quote_mint",
	"user_base_token_account",
	"user_quote_token_account",
	"pool_base_token_account",
	"pool_quote_token_account",
	"protocol_fee_recipient",
	"protocol_fee_recipient_token_account",
	"base_token_program",
	"quote_token_program",
	"system_program",
	"associated_token_program",
	"event_authority",
	"program",
	"coin_creator_vault_ata",
	"coin_creator_vault_authority",
	"creator",
	"lp_mint",
	"user_pool_token_account",
	"token_program",
	"token_2022_program",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// roleSpec 描述某指令种类的账户布局：必选前缀 + 可选后缀，均按声明顺序。
type roleSpec struct {
	required []Role
	optional []Role
}

// swapRoles 是 buy / sell 共用的账户布局。
// 前 17 个为必选；coin_creator_vault_* 两个可选账户由后续版本追加，
// 旧交易缺失时绑定为 InvalidAddress 占位。
var swapRoles = roleSpec{
	required: []Role{
		RolePool,
		RoleUser,
		RoleGlobalConfig,
		RoleBaseMint,
		RoleQuoteMint,
		RoleUserBaseTokenAccount,
		RoleUserQuoteTokenAccount,
		RolePoolBaseTokenAccount,
		RolePoolQuoteTokenAccount,
		RoleProtocolFeeRecipient,
		RoleProtocolFeeRecipientTokenAccount,
		RoleBaseTokenProgram,
		RoleQuoteTokenProgram,
		RoleSystemProgram,
		RoleAssociatedTokenProgram,
		RoleEventAuthority,
		RoleProgram,
	},
	optional: []Role{
		RoleCoinCreatorVaultAta,
		RoleCoinCreatorVaultAuthority,
	},
}

// liquidityRoles 是 deposit / withdraw 共用的账户布局
var liquidityRoles = roleSpec{
	required: []Role{
		RolePool,
		RoleGlobalConfig,
		RoleUser,
		RoleBaseMint,
		RoleQuoteMint,
		RoleLpMint,
		RoleUserBaseTokenAccount,
		RoleUserQuoteTokenAccount,
		RoleUserPoolTokenAccount,
		RolePoolBaseTokenAccount,
		RolePoolQuoteTokenAccount,
		RoleTokenProgram,
		RoleToken2022Program,
		RoleEventAuthority,
		RoleProgram,
	},
}

var createPoolRoles = roleSpec{
	required: []Role{
		RolePool,
		RoleGlobalConfig,
		RoleCreator,
		RoleBaseMint,
		RoleQuoteMint,
		RoleLpMint,
		RoleUserBaseTokenAccount,
		RoleUserQuoteTokenAccount,
		RolePoolBaseTokenAccount,
		RolePoolQuoteTokenAccount,
		RoleSystemProgram,
		RoleToken2022Program,
		RoleBaseTokenProgram,
		RoleQuoteTokenProgram,
		RoleAssociatedTokenProgram,
		RoleEventAuthority,
		RoleProgram,
	},
}

// AccountRoleSet 是位置 → 语义角色的绑定结果，构造后只读。
type AccountRoleSet struct {
	roles []Role         // required + optional，声明顺序
	keys  []types.Pubkey // 与 roles 等长；缺失的可选角色为 consts.InvalidAddress
}

// bindAccounts 按位置把账户列表绑定到 spec 定义的角色上。
// accounts 数量低于必选前缀时返回 InsufficientAccounts；
// 位于 required+optional 之后的账户合法但无角色，静默丢弃。
func bindAccounts(accounts []types.Pubkey, spec roleSpec) (AccountRoleSet, *DecodeError) {
	r, o := len(spec.required), len(spec.optional)
	if len(accounts) < r {
		return AccountRoleSet{}, errInsufficientAccounts(len(accounts), r)
	}

	roles := make([]Role, 0, r+o)
	keys := make([]types.Pubkey, 0, r+o)

	for i, role := range spec.required {
		roles = append(roles, role)
		keys = append(keys, accounts[i])
	}
	for j, role := range spec.optional {
		roles = append(roles, role)
		if idx := r + j; idx < len(accounts) {
			keys = append(keys, accounts[idx])
		} else {
			keys = append(keys, consts.InvalidAddress)
		}
	}
	return AccountRoleSet{roles: roles, keys: keys}, nil
}

// Get 返回角色对应的账户；角色未定义或可选账户缺失时返回 InvalidAddress。
// 角色数量很小，线性扫描够用。
func (s AccountRoleSet) Get(role Role) types.Pubkey {
	for i, r := range s.roles {
		if r == role {
			return s.keys[i]
		}
	}
	return consts.InvalidAddress
}

// Has 判断角色是否实际绑定到了账户（可选角色缺失时为 false）
func (s AccountRoleSet) Has(role Role) bool {
	for i, r := range s.roles {
		if r == role {
			return s.keys[i] != consts.InvalidAddress
		}
	}
	return false
}

// Len 返回绑定的角色总数（含以占位值填充的可选角色）
func (s AccountRoleSet) Len() int {
	return len(s.roles)
}
