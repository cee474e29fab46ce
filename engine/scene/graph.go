package scene

import (
	"fmt"

	"github.com/solarbyte/helios/engine/core"
	"github.com/solarbyte/helios/engine/math"
	"github.com/solarbyte/helios/engine/resources"
)

type EntityID uint32

const InvalidEntityID EntityID = 0xFFFFFFFF

/** @brief Per-entity tags requesting processing by engine systems. */
type Marker uint32

const (
	/** @brief Consolidate this entity's material on the next pass. */
	MarkerAutoInstanceMaterial Marker = 1 << iota
	/** @brief Expand MarkerAutoInstanceMaterial over the whole subtree, then self-remove. */
	MarkerAutoInstanceMaterialRecursive
	/** @brief Consolidate this entity's mesh on the next pass. */
	MarkerAutoInstanceMesh
	/** @brief Expand MarkerAutoInstanceMesh over the whole subtree, then self-remove. */
	MarkerAutoInstanceMeshRecursive
	/** @brief Post-process an imported scene subtree once, then self-remove. */
	MarkerPostProcessScene
	/** @brief The entity's light was placed by the application, not a scene import. */
	MarkerEngineLight
	/** @brief The entity receives shadows through transmissive surfaces. */
	MarkerTransmittedShadowReceiver
)

/**
 * @brief A node in the scene graph. Render components (material, mesh,
 * transform, bounding box) hang off the entity; systems read and rewrite
 * them in place.
 */
type Entity struct {
	ID      EntityID
	Name    string
	Parent  EntityID
	Children []EntityID
	Markers Marker

	/** @brief Handle to the entity's material, if any. */
	Material resources.MaterialHandle
	/** @brief Handle to the entity's mesh geometry, if any. */
	Mesh resources.MeshHandle
	/** @brief The entity's local transform. */
	Transform *math.Transform
	/** @brief The world-space bounding box of the entity's mesh. */
	Extents math.Extents3D
	/** @brief Light source data, if the entity is a light. */
	Light *resources.Light
	/** @brief Camera data, if the entity is a camera. */
	Camera *resources.Camera
}

func (e *Entity) AddMarker(m Marker) {
	e.Markers |= m
}

func (e *Entity) RemoveMarker(m Marker) {
	e.Markers &^= m
}

func (e *Entity) HasMarker(m Marker) bool {
	return e.Markers&m != 0
}

/**
 * @brief The scene graph: owns all entities and their parent→children
 * relation. Iteration order is creation order, which is the "natural order"
 * the consolidation systems rely on for first-seen-wins canonical selection.
 */
type Graph struct {
	entities map[EntityID]*Entity
	order    []EntityID
}

func NewGraph() *Graph {
	return &Graph{
		entities: make(map[EntityID]*Entity),
	}
}

// CreateEntity spawns a new entity under the given parent.
// Pass InvalidEntityID to create a root entity.
func (g *Graph) CreateEntity(name string, parent EntityID) *Entity {
	e := &Entity{
		ID:        EntityID(core.IdentifierAcquireNewID(name)),
		Name:      name,
		Parent:    InvalidEntityID,
		Transform: math.TransformCreate(),
	}
	g.entities[e.ID] = e
	g.order = append(g.order, e.ID)

	if parent != InvalidEntityID {
		if p, ok := g.entities[parent]; ok {
			e.Parent = parent
			p.Children = append(p.Children, e.ID)
			e.Transform.Parent = p.Transform
		} else {
			core.LogWarn("create_entity: parent id '%d' does not exist; '%s' spawned as root", parent, name)
		}
	}
	return e
}

func (g *Graph) Get(id EntityID) (*Entity, bool) {
	e, ok := g.entities[id]
	return e, ok
}

// Entities returns all live entities in creation order.
func (g *Graph) Entities() []*Entity {
	out := make([]*Entity, 0, len(g.entities))
	for _, id := range g.order {
		if e, ok := g.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Children returns the direct children of the given entity.
func (g *Graph) Children(id EntityID) []EntityID {
	if e, ok := g.entities[id]; ok {
		return e.Children
	}
	return nil
}

/**
 * @brief Walks every descendant of the given entity (not the entity
 * itself), calling fn for each. The traversal uses an explicit worklist
 * rather than recursion; deep imported scene graphs would otherwise risk
 * blowing the stack. Visit order is not significant.
 */
func (g *Graph) WalkDescendants(id EntityID, fn func(e *Entity)) {
	worklist := make([]EntityID, 0, len(g.Children(id)))
	worklist = append(worklist, g.Children(id)...)
	for len(worklist) > 0 {
		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		e, ok := g.entities[current]
		if !ok {
			continue
		}
		worklist = append(worklist, e.Children...)
		fn(e)
	}
}

// DestroyRecursive despawns the entity and its whole subtree.
func (g *Graph) DestroyRecursive(id EntityID) error {
	e, ok := g.entities[id]
	if !ok {
		return fmt.Errorf("destroy_recursive: entity id '%d' does not exist", id)
	}

	for _, child := range append([]EntityID{}, e.Children...) {
		if err := g.DestroyRecursive(child); err != nil {
			return err
		}
	}

	if p, ok := g.entities[e.Parent]; ok {
		for i, c := range p.Children {
			if c == id {
				p.Children = append(p.Children[:i], p.Children[i+1:]...)
				break
			}
		}
	}

	delete(g.entities, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	if err := core.IdentifierReleaseID(uint32(id)); err != nil {
		core.LogError(err.Error())
	}
	return nil
}

func (g *Graph) Count() int {
	return len(g.entities)
}
