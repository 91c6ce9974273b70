package state

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framesync/framesync/internal/core/frames"
	"github.com/framesync/framesync/pkg/encoding"
	"github.com/framesync/framesync/pkg/spatial"
)

func pose(x, y, z float32, orn spatial.Quat) spatial.Pose {
	return spatial.NewPose(mgl32.Vec3{x, y, z}, orn)
}

func assertPoseNear(t *testing.T, want, got spatial.Pose, tol float32) {
	t.Helper()
	if !want.Pos.ApproxEqualThreshold(got.Pos, tol) {
		t.Fatalf("position = %v, want %v", got.Pos, want.Pos)
	}
	if !want.Orn.SameRotation(got.Orn, tol) {
		t.Fatalf("orientation = %v, want %v", got.Orn, want.Orn)
	}
}

func buildHierarchy(t *testing.T) *frames.Hierarchy {
	t.Helper()
	h := frames.New()
	qz90 := spatial.EulerToQuat(mgl32.Vec3{0, 0, mgl32.DegToRad(90)})

	_, err := h.Add("robot", "", pose(1, 2, 0, qz90))
	require.NoError(t, err)
	_, err = h.Add("arm", "robot", pose(0, 1, 0, spatial.QuatIdent()))
	require.NoError(t, err)
	_, err = h.Add("gripper", "arm", pose(0.5, 0, 0.25, spatial.QuatIdent()))
	require.NoError(t, err)
	return h
}

func TestDumpSortsEntries(t *testing.T) {
	s := Dump(buildHierarchy(t))
	require.Len(t, s.Entries, 3)
	assert.Equal(t, "arm", s.Entries[0].Name)
	assert.Equal(t, "gripper", s.Entries[1].Name)
	assert.Equal(t, "robot", s.Entries[2].Name)
	assert.NoError(t, s.Verify())
}

func TestDumpChecksumIsDeterministic(t *testing.T) {
	a := Dump(buildHierarchy(t))
	b := Dump(buildHierarchy(t))
	assert.Equal(t, a.Checksum, b.Checksum)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestApplyRoundTrip(t *testing.T) {
	src := buildHierarchy(t)
	s := Dump(src)

	dst := frames.New()
	require.NoError(t, s.Apply(dst))

	for _, name := range []string{"robot", "arm", "gripper"} {
		want, err := src.PoseOf(name, frames.Scene)
		require.NoError(t, err)
		got, err := dst.PoseOf(name, frames.Scene)
		require.NoError(t, err)
		assertPoseNear(t, want, got, 1e-5)

		wantParent, err := src.ParentOf(name)
		require.NoError(t, err)
		gotParent, err := dst.ParentOf(name)
		require.NoError(t, err)
		assert.Equal(t, wantParent, gotParent)
	}
}

func TestApplySurvivesSceneMove(t *testing.T) {
	src := frames.New()
	_, err := src.Add("box", "", pose(1, 1, 1, spatial.QuatIdent()))
	require.NoError(t, err)
	s := Dump(src)

	dst := frames.NewAt(pose(10, 0, 0, spatial.QuatIdent()))
	require.NoError(t, s.Apply(dst))

	inScene, err := dst.PoseOf("box", frames.Scene)
	require.NoError(t, err)
	assertPoseNear(t, pose(1, 1, 1, spatial.QuatIdent()), inScene, 1e-6)

	world, err := dst.PoseOf("box", frames.World)
	require.NoError(t, err)
	assertPoseNear(t, pose(11, 1, 1, spatial.QuatIdent()), world, 1e-6)
}

func TestApplyOverwritesExistingFrames(t *testing.T) {
	src := buildHierarchy(t)
	s := Dump(src)

	dst := frames.New()
	_, err := dst.Add("robot", "", pose(9, 9, 9, spatial.QuatIdent()))
	require.NoError(t, err)
	require.NoError(t, s.Apply(dst))

	got, err := dst.PoseOf("robot", frames.Scene)
	require.NoError(t, err)
	want, err := src.PoseOf("robot", frames.Scene)
	require.NoError(t, err)
	assertPoseNear(t, want, got, 1e-6)
}

func TestApplyCreatesParentsBeforeChildren(t *testing.T) {
	s := Dump(buildHierarchy(t))

	// Entry order is alphabetical, so "arm" and "gripper" precede "robot"
	// and creation must resolve parents on its own.
	dst := frames.New()
	require.NoError(t, s.Apply(dst))

	p, err := dst.ParentOf("gripper")
	require.NoError(t, err)
	assert.Equal(t, "arm", p)
	p, err = dst.ParentOf("arm")
	require.NoError(t, err)
	assert.Equal(t, "robot", p)
}

func TestApplyUnknownParent(t *testing.T) {
	entries := []Entry{{Name: "arm", Parent: "torso", Pose: spatial.PoseIdent()}}
	s := &Snapshot{Entries: entries, Checksum: checksum(entries)}

	err := s.Apply(frames.New())
	assert.ErrorIs(t, err, ErrUnknownFrame)
}

func TestApplyParentCycle(t *testing.T) {
	entries := []Entry{
		{Name: "a", Parent: "b", Pose: spatial.PoseIdent()},
		{Name: "b", Parent: "a", Pose: spatial.PoseIdent()},
	}
	s := &Snapshot{Entries: entries, Checksum: checksum(entries)}

	err := s.Apply(frames.New())
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestVerifyDetectsTamper(t *testing.T) {
	s := Dump(buildHierarchy(t))
	s.Entries[0].Pose.Pos = mgl32.Vec3{100, 0, 0}

	assert.ErrorIs(t, s.Verify(), ErrChecksumMismatch)
	assert.ErrorIs(t, s.Apply(frames.New()), ErrChecksumMismatch)
}

func TestSerializeRoundTrip(t *testing.T) {
	s := Dump(buildHierarchy(t))
	data, err := s.Serialize()
	require.NoError(t, err)

	var out Snapshot
	require.NoError(t, out.Deserialize(data))

	assert.Equal(t, s.ID, out.ID)
	assert.True(t, s.Taken.Equal(out.Taken), "taken = %v, want %v", out.Taken, s.Taken)
	assert.Equal(t, s.Entries, out.Entries)
	assert.Equal(t, s.Checksum, out.Checksum)
}

func TestDeserializeRejectsBadVersion(t *testing.T) {
	s := Dump(buildHierarchy(t))
	data, err := s.Serialize()
	require.NoError(t, err)
	data[0] = 0xFF

	var out Snapshot
	assert.ErrorIs(t, out.Deserialize(data), ErrInvalidSnapshot)
}

func TestDeserializeTruncated(t *testing.T) {
	s := Dump(buildHierarchy(t))
	data, err := s.Serialize()
	require.NoError(t, err)

	var out Snapshot
	assert.ErrorIs(t, out.Deserialize(data[:len(data)/2]), encoding.ErrTruncated)
}

func TestDeserializeTrailingBytes(t *testing.T) {
	s := Dump(buildHierarchy(t))
	data, err := s.Serialize()
	require.NoError(t, err)
	data = append(data, 0)

	var out Snapshot
	assert.ErrorIs(t, out.Deserialize(data), ErrInvalidSnapshot)
}

func TestDeserializeDetectsCorruption(t *testing.T) {
	s := Dump(buildHierarchy(t))
	data, err := s.Serialize()
	require.NoError(t, err)
	// Flip one bit inside the first entry's pose floats so the payload still
	// parses but no longer matches the checksum.
	data[53] ^= 0x01

	var out Snapshot
	assert.ErrorIs(t, out.Deserialize(data), ErrChecksumMismatch)
}
