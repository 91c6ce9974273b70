// Package state captures and restores the frame content of a hierarchy.
//
// A snapshot stores every frame with its structural parent and its pose
// relative to the scene origin. Scene-relative poses survive a scene origin
// move between dump and reload, so a snapshot taken in one instance can be
// applied to an instance placed anywhere in the world.
package state

import (
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/framesync/framesync/internal/core/frames"
	"github.com/framesync/framesync/pkg/encoding"
	"github.com/framesync/framesync/pkg/spatial"
)

const formatVersion = 1

// Entry is one frame record inside a snapshot. Pose is relative to the scene
// origin of the hierarchy the snapshot was taken from.
type Entry struct {
	Name   string
	Parent string
	Pose   spatial.Pose
}

// Snapshot is a point-in-time capture of a hierarchy's frames, ordered by
// frame name. The checksum covers the encoded entries and is verified before
// every apply.
type Snapshot struct {
	ID       uuid.UUID
	Taken    time.Time
	Entries  []Entry
	Checksum uint64
}

var _ encoding.Serializable[Snapshot] = (*Snapshot)(nil)

// Dump captures every frame of h into a new snapshot. Entries are sorted by
// name so equal hierarchies produce equal checksums.
func Dump(h *frames.Hierarchy) *Snapshot {
	var entries []Entry
	h.Each(func(name, parent string, sceneRel spatial.Pose) {
		entries = append(entries, Entry{Name: name, Parent: parent, Pose: sceneRel})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return &Snapshot{
		ID:       uuid.New(),
		Taken:    time.Now().UTC(),
		Entries:  entries,
		Checksum: checksum(entries),
	}
}

// Verify recomputes the checksum over the entries and compares it against the
// stored one.
func (s *Snapshot) Verify() error {
	if got := checksum(s.Entries); got != s.Checksum {
		return fmt.Errorf("%w: have %016x, want %016x", ErrChecksumMismatch, got, s.Checksum)
	}
	return nil
}

// Apply restores the snapshot into h. Frames already present keep their
// structural parent and receive the recorded scene-relative pose; missing
// frames are created first, parents before children. A parent that exists
// neither in the snapshot nor in h fails with ErrUnknownFrame.
func (s *Snapshot) Apply(h *frames.Hierarchy) error {
	if err := s.Verify(); err != nil {
		return err
	}

	byName := make(map[string]Entry, len(s.Entries))
	for _, e := range s.Entries {
		byName[e.Name] = e
	}

	var ensure func(name string, trail map[string]bool) error
	ensure = func(name string, trail map[string]bool) error {
		if h.Has(name) {
			return nil
		}
		e, ok := byName[name]
		if !ok {
			return fmt.Errorf("%q: %w", name, ErrUnknownFrame)
		}
		if trail[name] {
			return fmt.Errorf("%w: parent cycle through %q", ErrInvalidSnapshot, name)
		}
		trail[name] = true
		if e.Parent != "" {
			if err := ensure(e.Parent, trail); err != nil {
				return err
			}
		}
		_, err := h.Add(e.Name, e.Parent, spatial.PoseIdent())
		return err
	}
	for _, e := range s.Entries {
		if err := ensure(e.Name, map[string]bool{}); err != nil {
			return err
		}
	}

	// Writing a scene-relative pose rebases it through the frame's current
	// ancestors, so parents must carry their final pose before any child is
	// written. Order the writes by depth in h.
	depths := make(map[string]int, len(s.Entries))
	for _, e := range s.Entries {
		depths[e.Name] = depthOf(h, e.Name)
	}
	ordered := make([]Entry, len(s.Entries))
	copy(ordered, s.Entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return depths[ordered[i].Name] < depths[ordered[j].Name]
	})
	for _, e := range ordered {
		if err := h.SetPoseOf(e.Name, e.Pose, frames.Scene); err != nil {
			return err
		}
	}
	return nil
}

func depthOf(h *frames.Hierarchy, name string) int {
	d := 0
	for cur := name; ; {
		parent, err := h.ParentOf(cur)
		if err != nil || parent == "" {
			return d
		}
		d++
		cur = parent
	}
}

// Serialize encodes the snapshot with the fixed byte order used across the
// wire and on disk.
func (s *Snapshot) Serialize() ([]byte, error) {
	b := encoding.AppendUint8(nil, formatVersion)
	b = encoding.AppendRaw(b, s.ID[:])
	b = encoding.AppendUint64(b, uint64(s.Taken.UnixNano()))
	b = appendEntries(b, s.Entries)
	b = encoding.AppendUint64(b, s.Checksum)
	return b, nil
}

// Deserialize decodes data into s and verifies the embedded checksum.
func (s *Snapshot) Deserialize(data []byte) error {
	r := encoding.NewReader(data)
	if v := r.Uint8(); r.Err() == nil && v != formatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, v)
	}
	copy(s.ID[:], r.Raw(len(s.ID)))
	s.Taken = time.Unix(0, int64(r.Uint64())).UTC()

	n := int(r.Uint32())
	if r.Err() == nil && n > r.Remaining() {
		return fmt.Errorf("%w: entry count %d exceeds payload", ErrInvalidSnapshot, n)
	}
	entries := make([]Entry, 0, n)
	for i := 0; i < n && r.Err() == nil; i++ {
		entries = append(entries, readEntry(r))
	}
	s.Entries = entries
	s.Checksum = r.Uint64()
	if err := r.Err(); err != nil {
		return err
	}
	if rest := r.Remaining(); rest != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidSnapshot, rest)
	}
	return s.Verify()
}

func checksum(entries []Entry) uint64 {
	return xxhash.Sum64(appendEntries(nil, entries))
}

func appendEntries(b []byte, entries []Entry) []byte {
	b = encoding.AppendUint32(b, uint32(len(entries)))
	for _, e := range entries {
		b = appendEntry(b, e)
	}
	return b
}

func appendEntry(b []byte, e Entry) []byte {
	b = encoding.AppendString(b, e.Name)
	b = encoding.AppendString(b, e.Parent)
	b = encoding.AppendFloat32(b, e.Pose.Pos.X())
	b = encoding.AppendFloat32(b, e.Pose.Pos.Y())
	b = encoding.AppendFloat32(b, e.Pose.Pos.Z())
	b = encoding.AppendFloat32(b, e.Pose.Orn.X)
	b = encoding.AppendFloat32(b, e.Pose.Orn.Y)
	b = encoding.AppendFloat32(b, e.Pose.Orn.Z)
	b = encoding.AppendFloat32(b, e.Pose.Orn.W)
	return b
}

func readEntry(r *encoding.Reader) Entry {
	var e Entry
	e.Name = r.String()
	e.Parent = r.String()
	e.Pose.Pos = mgl32.Vec3{r.Float32(), r.Float32(), r.Float32()}
	e.Pose.Orn = spatial.Quat{X: r.Float32(), Y: r.Float32(), Z: r.Float32(), W: r.Float32()}
	return e
}
