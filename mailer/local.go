package mailer

import (
	"os"
	"os/user"
	"strings"
)

// LocalDomain guesses the mail domain of this host. It takes the first
// of: the MAILDOMAIN environment variable, the first line of
// /etc/mailname, the domain part of the hostname, or
// "localhost.localdomain". The guess is computed fresh on every call.
func LocalDomain() string {
	if d := os.Getenv("MAILDOMAIN"); d != "" {
		return d
	}

	if b, err := os.ReadFile("/etc/mailname"); err == nil {
		line, _, _ := strings.Cut(string(b), "\n")
		if d := strings.TrimSpace(line); d != "" {
			return d
		}
	}

	if host, err := os.Hostname(); err == nil {
		if _, domain, ok := strings.Cut(host, "."); ok && domain != "" {
			return domain
		}
	}

	return "localhost.localdomain"
}

// LocalAddress guesses the mail address of the current user: the
// MAILADDRESS environment variable when set, otherwise the user name
// from USER, LOGNAME, or the account database, joined to LocalDomain.
func LocalAddress() string {
	if a := os.Getenv("MAILADDRESS"); a != "" {
		return a
	}

	name := os.Getenv("USER")
	if name == "" {
		name = os.Getenv("LOGNAME")
	}
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
	}
	if name == "" {
		name = "nobody"
	}

	return name + "@" + LocalDomain()
}
