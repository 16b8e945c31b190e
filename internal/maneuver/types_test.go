package maneuver

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopManeuver(t Type, strategy string) Maneuver {
	return Maneuver{
		Type:      t,
		StartDist: 0,
		EndDist:   100,
		Parameters: Parameters{
			StringValuedMeta: []string{strategy},
			IntValuedMeta:    []int{1},
			FloatValuedMeta:  []float64{1, 2, 5, 5, 10},
		},
	}
}

func TestTypeIsSupported(t *testing.T) {
	t.Parallel()

	for _, typ := range SupportedTypes {
		assert.True(t, typ.IsSupported(), "%s should be supported", typ)
	}
	assert.False(t, Type("lane_change").IsSupported())
	assert.False(t, Type("").IsSupported())
}

func TestParametersCase(t *testing.T) {
	t.Parallel()

	c, err := Parameters{IntValuedMeta: []int{3, 9}}.Case()
	require.NoError(t, err)
	assert.Equal(t, CaseThree, c)
	assert.True(t, c.IsReserved())
	assert.False(t, CaseOne.IsReserved())
	assert.False(t, CaseNumber(7).IsReserved())

	_, err = Parameters{}.Case()
	assert.True(t, errors.Is(err, ErrMissingMetaData))
}

func TestParametersKinematics(t *testing.T) {
	t.Parallel()

	k, err := Parameters{FloatValuedMeta: []float64{1.5, 2, 3, 4, 12}}.Kinematics()
	require.NoError(t, err)
	assert.Equal(t, Kinematics{Accel: 1.5, Decel: 2, AccelTime: 3, DecelTime: 4, SpeedBeforeDecel: 12}, k)

	_, err = Parameters{FloatValuedMeta: []float64{1, 2}}.Kinematics()
	assert.ErrorIs(t, err, ErrMissingMetaData)
}

func TestPlanStrategyGroup(t *testing.T) {
	t.Parallel()

	const strategy = "stop_controlled_intersection"
	plan := Plan{Maneuvers: []Maneuver{
		stopManeuver(LaneFollowing, "other"),
		stopManeuver(LaneFollowing, strategy),
		stopManeuver(IntersectionTransitStraight, strategy),
		stopManeuver(LaneFollowing, "other"),
		stopManeuver(LaneFollowing, strategy),
	}}

	group := plan.StrategyGroup(1, strategy)
	require.Len(t, group, 2)
	assert.Equal(t, IntersectionTransitStraight, group[1].Type)

	assert.Empty(t, plan.StrategyGroup(0, strategy))
	assert.Empty(t, plan.StrategyGroup(1, "STOP_CONTROLLED_INTERSECTION"), "strategy match is exact")
	assert.Nil(t, plan.StrategyGroup(5, strategy))
	assert.Nil(t, plan.StrategyGroup(-1, strategy))
}

func TestTypeUnmarshalJSON(t *testing.T) {
	t.Parallel()

	var m Maneuver
	require.NoError(t, json.Unmarshal([]byte(`{"type":"intersection_transit_left_turn","start_dist":1,"end_dist":2}`), &m))
	assert.Equal(t, IntersectionTransitLeftTurn, m.Type)

	require.NoError(t, json.Unmarshal([]byte(`{"type":4}`), &m))
	assert.Equal(t, LaneFollowing, m.Type)

	require.NoError(t, json.Unmarshal([]byte(`{"type":42}`), &m))
	assert.False(t, m.Type.IsSupported())

	assert.Error(t, json.Unmarshal([]byte(`{"type":true}`), &m))
}
