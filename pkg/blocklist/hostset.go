package blocklist

import (
	"slices"

	"github.com/samber/lo"
)

// HostSet stores unique hostnames. Identity is exact string equality.
type HostSet struct {
	hosts map[string]struct{}
}

// NewHostSet creates a HostSet holding the given hosts.
func NewHostSet(hosts ...string) *HostSet {
	s := &HostSet{hosts: make(map[string]struct{}, len(hosts))}
	for _, host := range hosts {
		s.Add(host)
	}
	return s
}

// Add inserts host. Empty strings are ignored.
func (s *HostSet) Add(host string) {
	if host == "" {
		return
	}
	s.hosts[host] = struct{}{}
}

// Contains reports whether host is in the set.
func (s *HostSet) Contains(host string) bool {
	if s == nil {
		return false
	}
	_, ok := s.hosts[host]
	return ok
}

// Len returns the number of hosts in the set.
func (s *HostSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.hosts)
}

// Merge adds every host of other to s.
func (s *HostSet) Merge(other *HostSet) {
	if other == nil {
		return
	}
	for host := range other.hosts {
		s.hosts[host] = struct{}{}
	}
}

// Subtract removes every host of other from s and returns how many were
// removed.
func (s *HostSet) Subtract(other *HostSet) int {
	if other == nil {
		return 0
	}
	removed := 0
	for host := range other.hosts {
		if _, ok := s.hosts[host]; ok {
			delete(s.hosts, host)
			removed++
		}
	}
	return removed
}

// Sorted returns the hosts in ascending byte order.
func (s *HostSet) Sorted() []string {
	if s == nil {
		return nil
	}
	hosts := lo.Keys(s.hosts)
	slices.Sort(hosts)
	return hosts
}
