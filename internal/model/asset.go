package model

import (
	"sort"
	"strings"
	"time"
)

const (
	AssetStatusActive   = "active"
	AssetStatusInactive = "inactive"
)

// Asset is a managed remote Linux host tracked by the backend.
//
// The joined group arrives under the backend's relationship key "group_r",
// not "group".
type Asset struct {
	ID         int       `json:"asset_id"`
	Name       string    `json:"name"`
	IP         string    `json:"ip"`
	Technology string    `json:"technology"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	Active     bool      `json:"is_active"`
	OwnerID    int       `json:"owner_id"`
	Group      Group     `json:"group_r"`
}

// Status returns the asset status label shown to the operator.
func (a *Asset) Status() string {
	if a.Active {
		return AssetStatusActive
	}

	return AssetStatusInactive
}

type Assets []Asset

// SortByGroup orders assets by group name, then asset name, for stable
// listing output.
func (a Assets) SortByGroup() {
	sort.Slice(a, func(i, j int) bool {
		gi := strings.ToLower(a[i].Group.Name)
		gj := strings.ToLower(a[j].Group.Name)

		if gi != gj {
			return gi < gj
		}

		return strings.ToLower(a[i].Name) < strings.ToLower(a[j].Name)
	})
}

// ByIP returns the asset matching the given IP address.
func (a Assets) ByIP(ip string) *Asset {
	for i := range a {
		if a[i].IP == ip {
			return &a[i]
		}
	}

	return nil
}
