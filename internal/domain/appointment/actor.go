package appointment

type Role string

const (
	RoleClient      Role = "client"
	RoleBarber      Role = "barber"
	RoleReception   Role = "reception"
	RoleBranchAdmin Role = "branch_admin"
	RoleSuperAdmin  Role = "super_admin"
)

type Capability uint8

const (
	CanVerifyPayment Capability = 1 << iota
	CanDelete
	CanMarkAttendance
	CanManageStatus
)

var roleCapabilities = map[Role]Capability{
	RoleClient:      0,
	RoleBarber:      CanMarkAttendance | CanManageStatus,
	RoleReception:   CanVerifyPayment | CanMarkAttendance | CanManageStatus,
	RoleBranchAdmin: CanVerifyPayment | CanDelete | CanMarkAttendance | CanManageStatus,
	RoleSuperAdmin:  CanVerifyPayment | CanDelete | CanMarkAttendance | CanManageStatus,
}

// Actor is whoever invokes a state-machine operation.
type Actor struct {
	UserID       uint
	Role         Role
	Capabilities Capability
}

// ActorFor resolves the capability set of a role. Unknown roles get none.
func ActorFor(userID uint, role string) Actor {
	r := Role(role)
	return Actor{
		UserID:       userID,
		Role:         r,
		Capabilities: roleCapabilities[r],
	}
}

func (a Actor) Can(c Capability) bool {
	return a.Capabilities&c == c
}

// Require fails with ErrForbidden when the capability is missing.
func (a Actor) Require(c Capability) error {
	if !a.Can(c) {
		return ErrForbidden
	}
	return nil
}
