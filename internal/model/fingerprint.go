package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// fingerprintInput is the canonical form hashed by Fingerprint. IDs and
// labels are left out so renaming a carton does not invalidate cached plans.
type fingerprintInput struct {
	Cartons    [][4]float64    `json:"c"`
	Containers [][4]float64    `json:"v"`
	Routes     []fingerprintRt `json:"r"`
	Settings   SolveSettings   `json:"s"`
}

type fingerprintRt struct {
	Container int   `json:"j"`
	Order     []int `json:"o"`
}

// Fingerprint returns a stable hex digest of everything that determines the
// solved plan: dimensions, weights, capacities, route order and the
// settings.
func (in Instance) Fingerprint(s SolveSettings) string {
	// Limits and verification do not change an optimal plan.
	s.TimeLimit, s.NodeLimit, s.Verify = 0, 0, false
	fi := fingerprintInput{Settings: s}
	for _, c := range in.Cartons {
		fi.Cartons = append(fi.Cartons, [4]float64{c.Length, c.Width, c.Height, c.Weight})
	}
	for _, c := range in.Containers {
		fi.Containers = append(fi.Containers, [4]float64{c.Length, c.Width, c.Height, c.Capacity})
	}
	for j := range in.Containers {
		if order := in.Route.Order(j); len(order) > 0 {
			fi.Routes = append(fi.Routes, fingerprintRt{Container: j, Order: order})
		}
	}
	sort.Slice(fi.Routes, func(a, b int) bool { return fi.Routes[a].Container < fi.Routes[b].Container })

	data, _ := json.Marshal(fi)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
