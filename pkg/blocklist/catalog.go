// Package blocklist merges hosts-format blocklists into one set of hostnames.
package blocklist

// ListDefinition describes a built-in hosts list.
type ListDefinition struct {
	ID          string
	Name        string
	URL         string
	Category    string
	Description string
}

// Catalog lists the built-in sources, in the order they are merged when the
// configuration names none.
var Catalog = []ListDefinition{
	{
		ID:          "adaway",
		Name:        "AdAway",
		URL:         "https://raw.githubusercontent.com/AdAway/adaway.github.io/master/hosts.txt",
		Category:    "ads",
		Description: "Mobile ad and analytics servers.",
	},
	{
		ID:          "yoyo",
		Name:        "Peter Lowe's Ad and tracking server list",
		URL:         "https://pgl.yoyo.org/adservers/serverlist.php?hostformat=hosts&mimetype=plaintext&useip=0.0.0.0",
		Category:    "ads",
		Description: "Ad and tracking servers.",
	},
	{
		ID:          "someonewhocares",
		Name:        "Dan Pollock's hosts file",
		URL:         "http://someonewhocares.org/hosts/zero/hosts",
		Category:    "misc",
		Description: "Ads, banners, trackers and other nuisances.",
	},
	{
		ID:          "malwaredomainlist",
		Name:        "Malware Domain List",
		URL:         "http://www.malwaredomainlist.com/hostslist/hosts.txt",
		Category:    "malware",
		Description: "Hosts associated with malware distribution.",
	},
}
