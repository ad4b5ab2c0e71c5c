package htn

import (
	"fmt"
	"strconv"
)

// TaskKind discriminates primitive and compound tasks.
type TaskKind uint8

const (
	KindPrimitive TaskKind = iota
	KindCompound
)

func (k TaskKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindCompound:
		return "compound"
	default:
		return "TaskKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// TaskID identifies a task of a Domain. Primitive and compound tasks are
// numbered independently, so an id never shifts when tasks of the other kind
// are registered later.
type TaskID struct {
	Kind  TaskKind
	Index int
}

// PrimitiveID returns the id of the i-th primitive task.
func PrimitiveID(i int) TaskID { return TaskID{Kind: KindPrimitive, Index: i} }

// CompoundID returns the id of the i-th compound task.
func CompoundID(i int) TaskID { return TaskID{Kind: KindCompound, Index: i} }

// IsPrimitive reports whether id names a primitive task.
func (id TaskID) IsPrimitive() bool { return id.Kind == KindPrimitive }

// IsCompound reports whether id names a compound task.
func (id TaskID) IsCompound() bool { return id.Kind == KindCompound }

func (id TaskID) String() string {
	switch id.Kind {
	case KindPrimitive:
		return "p" + strconv.Itoa(id.Index)
	case KindCompound:
		return "c" + strconv.Itoa(id.Index)
	default:
		return fmt.Sprintf("%s:%d", id.Kind, id.Index)
	}
}

// PrimitiveTask is an atomic action. It is applicable when Precondition
// leaves a truthy register; applying it runs Effect.
type PrimitiveTask struct {
	Precondition Script
	Effect       Script
}

// CompoundMethod is one way of decomposing a compound task. Utility scores
// or gates the method depending on the MethodFinder, Effect runs when the
// method is chosen, and Tasks are expanded in order.
type CompoundMethod struct {
	Utility Script
	Effect  Script
	Tasks   []TaskID
}

// NewCompoundMethod creates a method decomposing into tasks.
func NewCompoundMethod(tasks ...TaskID) CompoundMethod {
	return CompoundMethod{Tasks: append([]TaskID(nil), tasks...)}
}

// CompoundTask is an abstract task. Method order is significant: it is the
// priority order for ByCondition and the tie-break order for ByBestUtility.
type CompoundTask struct {
	Methods []CompoundMethod
}

// AddMethod appends m and returns a pointer to the stored copy, which stays
// valid until the next AddMethod call.
func (t *CompoundTask) AddMethod(m CompoundMethod) *CompoundMethod {
	t.Methods = append(t.Methods, m)
	return &t.Methods[len(t.Methods)-1]
}
