package machines

import (
	"errors"
	"net/netip"
	"net/url"
	"strings"
)

// Credentials authenticate every request against BaseURL.
type Credentials struct {
	AppID     string
	AppSecret string
	BaseURL   string
}

// Validate checks that the credentials can address and authenticate against the API.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.AppID) == "" {
		return errors.New("appid is required")
	}
	if c.AppSecret == "" {
		return errors.New("appsecret is required")
	}
	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil {
		return errors.New("url is not a valid URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("url must be an absolute http(s) URL")
	}
	return nil
}

// User is the account holding a machine lock.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Node is the hypervisor host a machine runs on.
type Node struct {
	ID   int        `json:"id"`
	IP   netip.Addr `json:"ip"`
	Name string     `json:"name"`
}

// Machine is one virtual desktop as reported by the inventory listing.
// LockedBy is nil iff the machine is free.
type Machine struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	VMID     string `json:"vmid"`
	Node     Node   `json:"node"`
	LockedBy *User  `json:"locked_by"`
}

// Locked reports whether some user currently holds the machine.
func (m Machine) Locked() bool {
	return m.LockedBy != nil
}

// Holder returns the lock holder's name, or "" when the machine is free.
func (m Machine) Holder() string {
	if m.LockedBy == nil {
		return ""
	}
	return m.LockedBy.Name
}
