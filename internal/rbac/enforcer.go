package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// rbacModel is a plain role/resource/action model. Roles come from the
// account record, not from a grouping table, so no g() policies are needed.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// rolePolicies is the static permission table. Admins manage everything;
// regular users operate on the public directory and their own records.
var rolePolicies = [][]string{
	{"admin", "*", "*"},

	{"user", "companies", "read"},
	{"user", "companies", "create"},
	{"user", "companies", "update"},
	{"user", "companies", "delete"},
	{"user", "reviews", "read"},
	{"user", "reviews", "create"},
	{"user", "favorites", "*"},
	{"user", "saved_searches", "*"},
	{"user", "subscriptions", "read"},
	{"user", "subscriptions", "update"},
	{"user", "notifications", "read"},
	{"user", "notifications", "update"},
	{"user", "dashboard", "read"},
	// Ownership of the advertised company is checked in the service.
	{"user", "advertisements", "*"},
}

// NewEnforcer builds the enforcer from the embedded model and seeds the
// static role policies.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range rolePolicies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	return enforcer, nil
}
