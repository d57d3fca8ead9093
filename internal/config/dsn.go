package config

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

// DSNFor builds the connection string for the configured backend kind. A
// non-empty DSN field is returned as is.
func (d DB) DSNFor() (string, error) {
	if d.DSN != "" {
		return d.DSN, nil
	}
	addr := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	switch d.Kind {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = addr
		mc.DBName = d.Name
		mc.ParseTime = true
		if len(d.Params) > 0 {
			mc.Params = make(map[string]string, len(d.Params))
			for k, v := range d.Params {
				mc.Params[k] = v
			}
		}
		return mc.FormatDSN(), nil

	case "postgres":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     addr,
			Path:     "/" + d.Name,
			RawQuery: encodeParams(d.Params, nil),
		}
		return u.String(), nil

	case "mssql":
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(d.User, d.Password),
			Host:     addr,
			RawQuery: encodeParams(d.Params, map[string]string{"database": d.Name}),
		}
		return u.String(), nil

	case "sqlite":
		if d.Name == "" {
			return "", fmt.Errorf("sqlite: db.name (file path) is required")
		}
		if len(d.Params) == 0 {
			return d.Name, nil
		}
		return "file:" + d.Name + "?" + encodeParams(d.Params, nil), nil

	default:
		return "", fmt.Errorf("unsupported db kind %q", d.Kind)
	}
}

// encodeParams renders params (plus extra, which wins) as a sorted query
// string so generated DSNs are stable.
func encodeParams(params, extra map[string]string) string {
	v := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set(k, params[k])
	}
	for k, val := range extra {
		v.Set(k, val)
	}
	return v.Encode()
}
