package assessment

import "fmt"

// Profile is one of the four quadrant classifications.
type Profile int

const (
	ProfileStrategicCommunicator Profile = iota
	ProfileTechnicalExpert
	ProfileStoryteller
	ProfileIntuitiveAnalyst
)

// Threshold splits each axis into low and high. A score equal to the
// threshold counts as high.
const Threshold = 0.5

// quadrants maps (analytical high, communication high) to a profile.
var quadrants = [2][2]Profile{
	// analytical low
	{ProfileIntuitiveAnalyst, ProfileStoryteller},
	// analytical high
	{ProfileTechnicalExpert, ProfileStrategicCommunicator},
}

// Classify returns the profile for a score.
func Classify(r ScoreResult) Profile {
	return quadrants[high(r.Analytical)][high(r.Communication)]
}

func high(v float64) int {
	if v >= Threshold {
		return 1
	}
	return 0
}

var profileNames = map[Profile]string{
	ProfileStrategicCommunicator: "Strategic Communicator",
	ProfileTechnicalExpert:       "Technical Expert",
	ProfileStoryteller:           "Storyteller",
	ProfileIntuitiveAnalyst:      "Intuitive Analyst",
}

var profileSlugs = map[Profile]string{
	ProfileStrategicCommunicator: "strategic-communicator",
	ProfileTechnicalExpert:       "technical-expert",
	ProfileStoryteller:           "storyteller",
	ProfileIntuitiveAnalyst:      "intuitive-analyst",
}

// AllProfiles returns the profiles in display order.
func AllProfiles() []Profile {
	return []Profile{
		ProfileStrategicCommunicator,
		ProfileTechnicalExpert,
		ProfileStoryteller,
		ProfileIntuitiveAnalyst,
	}
}

// String returns the display name.
func (p Profile) String() string {
	if n, ok := profileNames[p]; ok {
		return n
	}
	return fmt.Sprintf("profile(%d)", int(p))
}

// Slug returns the kebab-case identifier used in APIs and metrics.
func (p Profile) Slug() string {
	return profileSlugs[p]
}

// MarshalText encodes the profile as its slug.
func (p Profile) MarshalText() ([]byte, error) {
	s, ok := profileSlugs[p]
	if !ok {
		return nil, fmt.Errorf("unknown profile %d", int(p))
	}
	return []byte(s), nil
}

// UnmarshalText decodes a profile slug.
func (p *Profile) UnmarshalText(b []byte) error {
	v, ok := ParseProfile(string(b))
	if !ok {
		return fmt.Errorf("unknown profile %q", string(b))
	}
	*p = v
	return nil
}

// ParseProfile looks a profile up by slug.
func ParseProfile(slug string) (Profile, bool) {
	for p, s := range profileSlugs {
		if s == slug {
			return p, true
		}
	}
	return 0, false
}
