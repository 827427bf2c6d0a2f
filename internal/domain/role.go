package domain

// Role of a user account. The role alone decides what the account may do.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleViolationEntry Role = "violation_entry"
	RoleInquiry        Role = "inquiry"
)

// RoleNames display names shown by the admin UI.
var RoleNames = map[Role]string{
	RoleAdmin:          "مدير النظام",
	RoleViolationEntry: "مدخل المخالفات",
	RoleInquiry:        "مستخدم استعلام",
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Capabilities of the role; an unknown role has none.
func (r Role) Capabilities() CapabilitySet {
	return roleCapabilities[r]
}

// Can reports whether the role grants c.
func (r Role) Can(c Capability) bool {
	return r.Capabilities().Has(c)
}

// Capability a single permission flag.
type Capability uint16

const (
	CanViewDashboard Capability = 1 << iota
	CanAddViolation
	CanEditViolation
	CanDeleteViolation
	CanViewViolation
	CanManageUsers
	CanViewReports
	CanExportData
	CanImportData
	CanManageSystem
)

// AllCapabilities in matrix order.
var AllCapabilities = []Capability{
	CanViewDashboard,
	CanAddViolation,
	CanEditViolation,
	CanDeleteViolation,
	CanViewViolation,
	CanManageUsers,
	CanViewReports,
	CanExportData,
	CanImportData,
	CanManageSystem,
}

var capabilityNames = map[Capability]string{
	CanViewDashboard:   "canViewDashboard",
	CanAddViolation:    "canAddViolation",
	CanEditViolation:   "canEditViolation",
	CanDeleteViolation: "canDeleteViolation",
	CanViewViolation:   "canViewViolation",
	CanManageUsers:     "canManageUsers",
	CanViewReports:     "canViewReports",
	CanExportData:      "canExportData",
	CanImportData:      "canImportData",
	CanManageSystem:    "canManageSystem",
}

var capabilitiesByName = func() map[string]Capability {
	m := make(map[string]Capability, len(capabilityNames))
	for c, n := range capabilityNames {
		m[n] = c
	}
	return m
}()

func (c Capability) String() string {
	if n, ok := capabilityNames[c]; ok {
		return n
	}
	return "unknown"
}

// ParseCapability looks up a capability by its wire name.
func ParseCapability(name string) (Capability, bool) {
	c, ok := capabilitiesByName[name]
	return c, ok
}

// CapabilitySet bitset of capabilities.
type CapabilitySet uint16

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

func (s CapabilitySet) Has(c Capability) bool {
	return c != 0 && s&CapabilitySet(c) == CapabilitySet(c)
}

// Map renders the set as {name: granted} over every capability.
func (s CapabilitySet) Map() map[string]bool {
	m := make(map[string]bool, len(AllCapabilities))
	for _, c := range AllCapabilities {
		m[c.String()] = s.Has(c)
	}
	return m
}

var roleCapabilities = map[Role]CapabilitySet{
	RoleAdmin: NewCapabilitySet(AllCapabilities...),
	RoleViolationEntry: NewCapabilitySet(
		CanAddViolation,
		CanViewViolation,
	),
	RoleInquiry: NewCapabilitySet(
		CanViewViolation,
		CanViewReports,
		CanExportData,
	),
}

// HasPermission string-keyed lookup for UI gating. Unknown role or name is false.
func HasPermission(role Role, name string) bool {
	c, ok := ParseCapability(name)
	if !ok {
		return false
	}
	return role.Can(c)
}
