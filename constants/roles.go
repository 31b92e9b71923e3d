package constants

// User roles carried in the session token's role claim.
const (
	RoleAdmin  = "admin"
	RoleFarmer = "farmer"
)

// Fiber locals keys set by the auth middleware.
const (
	LocalsSession = "session"
	LocalsToken   = "access_token"
)
