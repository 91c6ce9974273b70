// Package frames tracks a per-instance hierarchy of named coordinate frames
// under a movable scene origin. A frame's pose can be read or written
// relative to its structural parent, to the scene origin, or to the world;
// the world pose is never stored, it is always the scene origin pose
// composed with the scene-relative pose, so the two can not drift apart.
package frames

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/framesync/framesync/pkg/spatial"
)

// Ref selects the frame a pose accessor speaks in.
type Ref uint8

const (
	// World is the shared global frame.
	World Ref = iota
	// Parent is the frame's immediate structural container.
	Parent
	// Scene is the per-instance scene origin.
	Scene
)

func (r Ref) String() string {
	switch r {
	case World:
		return "world"
	case Parent:
		return "parent"
	case Scene:
		return "scene"
	default:
		return fmt.Sprintf("ref(%d)", uint8(r))
	}
}

type node struct {
	parent string
	rel    spatial.Pose
}

// Hierarchy is a set of named frames rooted at one scene origin. All methods
// are safe for concurrent use.
type Hierarchy struct {
	mu    sync.RWMutex
	scene spatial.Pose
	nodes map[string]*node
}

// New returns a hierarchy whose scene origin coincides with the world frame.
func New() *Hierarchy {
	return NewAt(spatial.PoseIdent())
}

// NewAt returns a hierarchy whose scene origin sits at the given world pose.
func NewAt(scene spatial.Pose) *Hierarchy {
	return &Hierarchy{
		scene: scene,
		nodes: make(map[string]*node),
	}
}

// SceneOrigin returns the scene origin's pose in the world frame.
func (h *Hierarchy) SceneOrigin() spatial.Pose {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.scene
}

// MoveScene re-anchors the scene origin in the world frame. Scene-relative
// poses are untouched, so every frame's world pose shifts rigidly with the
// origin.
func (h *Hierarchy) MoveScene(scene spatial.Pose) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scene = scene
}

// Add registers a frame under the named parent with the given pose relative
// to that parent. An empty parent attaches the frame directly to the scene
// origin; an empty name draws a fresh one. The registered name is returned.
func (h *Hierarchy) Add(name, parent string, rel spatial.Pose) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if name == "" {
		name = uuid.NewString()
	}
	if _, ok := h.nodes[name]; ok {
		return "", fmt.Errorf("%q: %w", name, ErrDuplicateFrame)
	}
	if parent != "" {
		if _, ok := h.nodes[parent]; !ok {
			return "", fmt.Errorf("parent %q: %w", parent, ErrFrameNotFound)
		}
	}

	h.nodes[name] = &node{parent: parent, rel: rel}
	return name, nil
}

// Remove deletes a frame. Children are re-attached to the removed frame's
// parent with their relative poses composed through it, so their world poses
// do not move.
func (h *Hierarchy) Remove(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	n, ok := h.nodes[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrFrameNotFound)
	}
	for _, child := range h.nodes {
		if child.parent == name {
			child.parent = n.parent
			child.rel = spatial.PoseTransform(n.rel, child.rel)
		}
	}
	delete(h.nodes, name)
	return nil
}

// Has reports whether a frame is registered.
func (h *Hierarchy) Has(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.nodes[name]
	return ok
}

// Names returns the registered frame names in no particular order.
func (h *Hierarchy) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.nodes))
	for name := range h.nodes {
		names = append(names, name)
	}
	return names
}

// Each calls fn for every frame with its structural parent and
// scene-relative pose, all observed under one read lock. Iteration order is
// unspecified.
func (h *Hierarchy) Each(fn func(name, parent string, sceneRel spatial.Pose)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for name, n := range h.nodes {
		fn(name, n.parent, h.sceneRelLocked(n))
	}
}

// ParentOf returns the structural parent of a frame, or the empty string for
// frames attached to the scene origin.
func (h *Hierarchy) ParentOf(name string) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n, ok := h.nodes[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrFrameNotFound)
	}
	return n.parent, nil
}

// PoseOf returns the pose of a frame relative to the requested reference.
// When the structural parent is the scene origin, the Parent and Scene
// references return the identical stored value.
func (h *Hierarchy) PoseOf(name string, ref Ref) (spatial.Pose, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n, ok := h.nodes[name]
	if !ok {
		return spatial.Pose{}, fmt.Errorf("%q: %w", name, ErrFrameNotFound)
	}

	switch ref {
	case Parent:
		return n.rel, nil
	case Scene:
		return h.sceneRelLocked(n), nil
	case World:
		return spatial.PoseTransform(h.scene, h.sceneRelLocked(n)), nil
	default:
		return spatial.Pose{}, fmt.Errorf("%v: %w", ref, ErrUnknownRef)
	}
}

// SetPoseOf writes the pose of a frame interpreted in the requested
// reference. Writes in the Scene and World references are rebased onto the
// structural parent before storing, so reads in any reference stay
// consistent.
func (h *Hierarchy) SetPoseOf(name string, p spatial.Pose, ref Ref) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	n, ok := h.nodes[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrFrameNotFound)
	}

	switch ref {
	case Parent:
		n.rel = p
	case Scene:
		n.rel = h.rebaseLocked(n, p)
	case World:
		inScene := spatial.RelativePoseTransform(p, h.scene)
		n.rel = h.rebaseLocked(n, inScene)
	default:
		return fmt.Errorf("%v: %w", ref, ErrUnknownRef)
	}
	return nil
}

// sceneRelLocked composes the relative poses up the parent chain. Frames
// attached directly to the scene origin return the stored pose unchanged.
func (h *Hierarchy) sceneRelLocked(n *node) spatial.Pose {
	if n.parent == "" {
		return n.rel
	}
	return spatial.PoseTransform(h.sceneRelLocked(h.nodes[n.parent]), n.rel)
}

// rebaseLocked converts a scene-relative pose into a parent-relative one.
func (h *Hierarchy) rebaseLocked(n *node, inScene spatial.Pose) spatial.Pose {
	if n.parent == "" {
		return inScene
	}
	parentInScene := h.sceneRelLocked(h.nodes[n.parent])
	return spatial.RelativePoseTransform(inScene, parentInScene)
}
