package state

var (
	platformStateKeyBytes = []byte("platform/state")
	assetPrefix           = []byte("platform/asset/")
	assetListKeyBytes     = []byte("platform/asset-list")
	identityPrefix        = []byte("platform/user/")
	identityListKeyBytes  = []byte("platform/user-list")
	accountPrefix         = []byte("platform/account/")
	accountListKeyBytes   = []byte("platform/account-list")
	escrowPrefix          = []byte("platform/escrow/")
	planPrefix            = []byte("platform/plan/")
	balancePrefix         = []byte("balance/")
	rolePrefix            = []byte("role/")
)
