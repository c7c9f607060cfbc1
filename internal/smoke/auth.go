package smoke

import (
	"context"
	"fmt"
	"strings"

	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/pkg/baas"
)

// AuthCheck signs in with the given credentials, inspects the session and
// the caller's roles, then signs out. Role checks need the service key and
// are skipped without it.
func AuthCheck(ctx context.Context, client *baas.Client, email, password string) *Report {
	r := &Report{}
	if email == "" || password == "" {
		r.fail("auth: credentials", "pass email and password as arguments or set SMOKE_EMAIL and SMOKE_PASSWORD")
		return r
	}

	sess, err := client.SignInWithPassword(ctx, email, password)
	if err != nil {
		r.fail("auth: sign in", "%v", err)
		return r
	}
	r.pass("auth: sign in", "%s", email)

	if sess.AccessToken == "" || sess.User.ID == "" {
		r.fail("auth: session", "session is empty")
		return r
	}
	r.pass("auth: session", "expires in %ds", sess.ExpiresIn)

	if u, err := client.GetUser(ctx, sess.AccessToken); err != nil {
		r.fail("auth: get user", "%v", err)
	} else {
		r.pass("auth: get user", "%s", u.ID)
	}

	checkRoles(ctx, r, client, sess.User.ID)

	if err := client.SignOut(ctx, sess.AccessToken); err != nil {
		r.fail("auth: sign out", "%v", err)
	} else {
		r.pass("auth: sign out", "ok")
	}
	return r
}

func checkRoles(ctx context.Context, r *Report, client *baas.Client, userID string) {
	svc, err := client.AsService()
	if err != nil {
		r.skip("roles: lookup", "no service role key")
		r.skip("roles: admin access", "no service role key")
		r.skip("auth: list users", "no service role key")
		return
	}

	var rows []struct {
		Role entity.AppRole `json:"role"`
	}
	if err := svc.From("user_roles").Select("role").Eq("user_id", userID).Execute(ctx, &rows); err != nil {
		r.fail("roles: lookup", "%v", err)
		r.skip("roles: admin access", "role lookup failed")
	} else {
		roles := make([]entity.AppRole, 0, len(rows))
		names := make([]string, 0, len(rows))
		for _, row := range rows {
			roles = append(roles, row.Role)
			names = append(names, string(row.Role))
		}
		r.pass("roles: lookup", "[%s]", strings.Join(names, ", "))

		if entity.HasAnyRole(roles, entity.RoleAdmin, entity.RoleBAC) {
			r.pass("roles: admin access", "granted")
		} else {
			r.fail("roles: admin access", "user has neither admin nor bac")
		}
	}

	users, err := client.AdminListUsers(ctx, 1, 50)
	if err != nil {
		r.fail("auth: list users", "%v", err)
		return
	}
	r.pass("auth: list users", "%s", plural(len(users), "user"))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
