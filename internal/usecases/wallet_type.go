package usecases

import "parcel-ledger.backend/internal/domain/entities"

// walletTypeRoles pairs every wallet type with the role that earns it, in
// precedence order. The first role the owner holds wins.
var walletTypeRoles = []struct {
	role       entities.Role
	walletType entities.WalletType
}{
	{entities.RoleRider, entities.WalletTypeRider},
	{entities.RoleAgent, entities.WalletTypeAgent},
	{entities.RoleBusiness, entities.WalletTypeBusiness},
	{entities.RoleClient, entities.WalletTypeClient},
}

// InferWalletType classifies an owner as rider > agent > business > client.
// Owners holding none of these roles get a client wallet.
func InferWalletType(owner *entities.Owner) entities.WalletType {
	if owner == nil {
		return entities.WalletTypeClient
	}
	for _, candidate := range walletTypeRoles {
		if owner.HasRole(candidate.role) {
			return candidate.walletType
		}
	}
	return entities.WalletTypeClient
}
