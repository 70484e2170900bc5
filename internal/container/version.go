package container

// channelCountForVersion derives the Score's channel count from the
// Config chunk's directorVersion (spec §3: "channel count (1000 for
// late-era, 120/48 earlier as a function of Config directorVersion)").
// The exact historical version boundaries are not given in spec.md
// (scenario S1 only fixes one data point: directorVersion=1200 ->
// channelCount=120); these brackets are chosen to satisfy that scenario
// and the documented late-era range (internal version 1100-1800, spec §1
// Non-goals) — recorded as a resolved design decision in DESIGN.md.
func channelCountForVersion(directorVersion int) int {
	switch {
	case directorVersion >= 1500:
		return 1000
	case directorVersion >= 1150:
		return 120
	default:
		return 48
	}
}
