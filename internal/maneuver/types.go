package maneuver

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type identifies the kind of maneuver.
type Type string

const (
	LaneFollowing                Type = "lane_following"
	IntersectionTransitStraight  Type = "intersection_transit_straight"
	IntersectionTransitLeftTurn  Type = "intersection_transit_left_turn"
	IntersectionTransitRightTurn Type = "intersection_transit_right_turn"
)

// SupportedTypes lists the maneuver types the stop-controlled intersection
// planner accepts.
var SupportedTypes = []Type{
	LaneFollowing,
	IntersectionTransitStraight,
	IntersectionTransitLeftTurn,
	IntersectionTransitRightTurn,
}

// IsSupported reports whether t is one of SupportedTypes.
func (t Type) IsSupported() bool {
	for _, s := range SupportedTypes {
		if t == s {
			return true
		}
	}
	return false
}

// CaseNumber selects which kinematic profile the planner builds for a
// maneuver. Only CaseOne has a profile today.
type CaseNumber int

const (
	CaseOne   CaseNumber = 1 // accelerate to v_mid, decelerate to a stop at end_dist
	CaseTwo   CaseNumber = 2 // reserved
	CaseThree CaseNumber = 3 // reserved
)

// IsReserved reports whether c is a recognised selector without a profile.
func (c CaseNumber) IsReserved() bool {
	return c == CaseTwo || c == CaseThree
}

func (c CaseNumber) String() string {
	switch c {
	case CaseOne:
		return "case_one"
	case CaseTwo:
		return "case_two"
	case CaseThree:
		return "case_three"
	default:
		return fmt.Sprintf("case(%d)", int(c))
	}
}

// Index of each value in Parameters.FloatMeta, in the order the strategic
// planner writes them.
const (
	FloatAccel = iota
	FloatDecel
	FloatAccelTime
	FloatDecelTime
	FloatSpeedBeforeDecel

	floatMetaLen
)

// ErrMissingMetaData is returned when a meta-data bag is too short.
var ErrMissingMetaData = errors.New("maneuver meta-data missing")

// Parameters is the meta-data bag attached to every maneuver.
type Parameters struct {
	ParametersID     string    `json:"parameters_id,omitempty"`
	PlannerType      string    `json:"planner_type,omitempty"`
	StringValuedMeta []string  `json:"string_valued_meta_data,omitempty"`
	IntValuedMeta    []int     `json:"int_valued_meta_data,omitempty"`
	FloatValuedMeta  []float64 `json:"float_valued_meta_data,omitempty"`
	NegotiationType  string    `json:"negotiation_type,omitempty"`
	PresenceVector   uint32    `json:"presence_vector,omitempty"`
}

// Strategy returns the first string meta-data entry, which names the
// strategy the maneuver belongs to. It returns "" when absent.
func (p Parameters) Strategy() string {
	if len(p.StringValuedMeta) == 0 {
		return ""
	}
	return p.StringValuedMeta[0]
}

// Case returns the case selector held in the first integer meta-data entry.
func (p Parameters) Case() (CaseNumber, error) {
	if len(p.IntValuedMeta) == 0 {
		return 0, fmt.Errorf("%w: no int_valued_meta_data for case number", ErrMissingMetaData)
	}
	return CaseNumber(p.IntValuedMeta[0]), nil
}

// Kinematics are the case-one profile parameters decoded from FloatMeta.
type Kinematics struct {
	Accel            float64 // m/s², magnitude
	Decel            float64 // m/s², magnitude
	AccelTime        float64 // s
	DecelTime        float64 // s
	SpeedBeforeDecel float64 // m/s, cruise speed reached before braking
}

// Kinematics decodes the five float meta-data values.
func (p Parameters) Kinematics() (Kinematics, error) {
	if len(p.FloatValuedMeta) < floatMetaLen {
		return Kinematics{}, fmt.Errorf("%w: float_valued_meta_data has %d values, need %d",
			ErrMissingMetaData, len(p.FloatValuedMeta), floatMetaLen)
	}
	f := p.FloatValuedMeta
	return Kinematics{
		Accel:            f[FloatAccel],
		Decel:            f[FloatDecel],
		AccelTime:        f[FloatAccelTime],
		DecelTime:        f[FloatDecelTime],
		SpeedBeforeDecel: f[FloatSpeedBeforeDecel],
	}, nil
}

// Maneuver is one planning directive over a route segment.
type Maneuver struct {
	Type       Type       `json:"type"`
	StartDist  float64    `json:"start_dist"` // downtrack, metres
	EndDist    float64    `json:"end_dist"`   // downtrack, metres
	StartSpeed float64    `json:"start_speed,omitempty"`
	EndSpeed   float64    `json:"end_speed,omitempty"`
	StartTime  float64    `json:"start_time,omitempty"` // seconds
	EndTime    float64    `json:"end_time,omitempty"`   // seconds
	LaneIDs    []string   `json:"lane_ids,omitempty"`
	Parameters Parameters `json:"parameters"`
}

// Length returns the declared downtrack length of the maneuver.
func (m Maneuver) Length() float64 {
	return m.EndDist - m.StartDist
}

func (m Maneuver) String() string {
	return fmt.Sprintf("%s[%.2f..%.2f]", m.Type, m.StartDist, m.EndDist)
}

// Plan is an ordered list of maneuvers.
type Plan struct {
	PlanID    string     `json:"maneuver_plan_id,omitempty"`
	Maneuvers []Maneuver `json:"maneuvers"`
}

// StrategyGroup returns the contiguous run of maneuvers beginning at start
// whose strategy equals strategy. The run ends at the first maneuver with a
// different strategy. It returns nil when start is out of range.
func (p Plan) StrategyGroup(start int, strategy string) []Maneuver {
	if start < 0 || start >= len(p.Maneuvers) {
		return nil
	}
	var group []Maneuver
	for _, m := range p.Maneuvers[start:] {
		if m.Parameters.Strategy() != strategy {
			break
		}
		group = append(group, m)
	}
	return group
}

// UnmarshalJSON accepts the type either as a string name or as the integer
// code used on the arbitrator wire.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Type(s)
		return nil
	}
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("maneuver type must be a string or integer: %w", err)
	}
	*t = TypeFromCode(code)
	return nil
}

// Wire codes for maneuver types.
var typeCodes = map[int]Type{
	0: IntersectionTransitStraight,
	1: IntersectionTransitLeftTurn,
	2: IntersectionTransitRightTurn,
	3: "stop_and_wait",
	4: LaneFollowing,
	5: "lane_change",
}

// TypeFromCode maps an integer wire code to a Type. Unknown codes map to
// a Type that is never supported.
func TypeFromCode(code int) Type {
	if t, ok := typeCodes[code]; ok {
		return t
	}
	return Type(fmt.Sprintf("unknown(%d)", code))
}
