package credentials

// DefaultSeeds is the built-in client table used by the memory backend and
// to bootstrap an empty Postgres table.
func DefaultSeeds() []Seed {
	return []Seed{
		{ClientID: "walter", Secret: "verysecurepw", Org: "erste"},
		{ClientID: "karl", Secret: "verysecurepw", Org: "rbi"},
		{ClientID: "paul", Secret: "verysecurepw", Org: "oenb"},
		{ClientID: "roman", Secret: "verysecurepw", Org: "erste"},
		{ClientID: "johannes", Secret: "verysecurepw", Org: "oenb"},
	}
}
