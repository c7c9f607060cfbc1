package smoke

import (
	"context"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/pkg/baas"
)

// Env is the backend configuration as the operator supplied it.
type Env struct {
	URL        string
	AnonKey    string
	ServiceKey string
}

// looksLikeJWT checks the shape of a key without verifying it.
func looksLikeJWT(key string) bool {
	if strings.Count(key, ".") != 2 {
		return false
	}
	_, _, err := jwt.NewParser().ParseUnverified(key, jwt.MapClaims{})
	return err == nil
}

// CheckEnv validates presence and shape of the configuration.
func CheckEnv(r *Report, env Env) {
	u, err := url.Parse(env.URL)
	switch {
	case env.URL == "":
		r.fail("env: project URL", "BAAS_URL is not set")
	case err != nil || u.Scheme != "https" || u.Host == "":
		r.fail("env: project URL", "%q is not an https URL", env.URL)
	default:
		r.pass("env: project URL", "%s", u.Host)
	}

	switch {
	case env.AnonKey == "":
		r.fail("env: anon key", "BAAS_ANON_KEY is not set")
	case !looksLikeJWT(env.AnonKey):
		r.fail("env: anon key", "not a JWT")
	default:
		r.pass("env: anon key", "present")
	}

	if env.ServiceKey == "" {
		r.skip("env: service role key", "not set, privileged checks will be skipped")
	} else {
		r.pass("env: service role key", "present")
	}
}

// CheckTables selects one row from every table. Permission and rate-limit
// errors still prove the table exists.
func CheckTables(ctx context.Context, r *Report, client *baas.Client) {
	for _, table := range entity.Tables {
		name := "table: " + table
		var rows []map[string]any
		err := client.From(table).Select("*").Limit(1).Execute(ctx, &rows)
		switch {
		case err == nil:
			r.pass(name, "reachable")
		case baas.IsMissingTable(err):
			r.fail(name, "missing: %v", err)
		case baas.IsPermissionDenied(err):
			r.pass(name, "reachable (access restricted)")
		case baas.IsRateLimited(err):
			r.pass(name, "reachable (rate limited)")
		default:
			r.fail(name, "%v", err)
		}
	}
}

// SystemCheck runs the environment, auth health and table checks. client
// is nil when the environment is too broken to build one.
func SystemCheck(ctx context.Context, env Env, client *baas.Client) *Report {
	r := &Report{}
	CheckEnv(r, env)

	if client == nil {
		r.fail("auth: health", "no client")
		return r
	}

	if err := client.Health(ctx); err != nil {
		if baas.IsRateLimited(err) {
			r.pass("auth: health", "reachable (rate limited)")
		} else {
			r.fail("auth: health", "%v", err)
		}
	} else {
		r.pass("auth: health", "ok")
	}

	CheckTables(ctx, r, client)
	return r
}
