package htn

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MethodFinder picks the method of a compound task to expand. It scans
// task.Methods from start forward, never backward, which is what lets a
// backtracked task resume after the methods it already rejected.
//
// ok is false when no method qualifies. Utility scripts run against ws and
// may write to it. An error wrapping only ErrUnrecognizedOperation is a
// warning: index and ok are still meaningful.
type MethodFinder interface {
	FindMethod(task *CompoundTask, ws *WorldState, start int) (index int, ok bool, err error)
}

// MethodFinderFunc adapts a function to MethodFinder.
type MethodFinderFunc func(task *CompoundTask, ws *WorldState, start int) (int, bool, error)

// FindMethod implements MethodFinder.
func (f MethodFinderFunc) FindMethod(task *CompoundTask, ws *WorldState, start int) (int, bool, error) {
	return f(task, ws, start)
}

// ByCondition selects the first method whose utility is truthy.
type ByCondition struct{}

var _ MethodFinder = ByCondition{}

// FindMethod implements MethodFinder.
func (ByCondition) FindMethod(task *CompoundTask, ws *WorldState, start int) (int, bool, error) {
	var warnings []error
	for i := max(start, 0); i < len(task.Methods); i++ {
		v, err := task.Methods[i].Utility.Apply(ws)
		if err != nil {
			err = fmt.Errorf("method %d utility: %w", i, err)
			if !recoverable(err) {
				return 0, false, err
			}
			warnings = append(warnings, err)
		}
		if Truthy(v) {
			return i, true, errors.Join(warnings...)
		}
	}
	return 0, false, errors.Join(warnings...)
}

// ByBestUtility selects the method with the strictly greatest utility; the
// earliest method wins ties. NaN utilities lose to any other value. Any
// non-empty range yields a method, even when every utility is zero, negative
// or NaN.
type ByBestUtility struct{}

var _ MethodFinder = ByBestUtility{}

// FindMethod implements MethodFinder.
func (ByBestUtility) FindMethod(task *CompoundTask, ws *WorldState, start int) (int, bool, error) {
	best, found := 0, false
	bestUtility := AttributeValue(math.Inf(-1))
	var warnings []error
	for i := max(start, 0); i < len(task.Methods); i++ {
		v, err := task.Methods[i].Utility.Apply(ws)
		if err != nil {
			err = fmt.Errorf("method %d utility: %w", i, err)
			if !recoverable(err) {
				return 0, false, err
			}
			warnings = append(warnings, err)
		}
		if !found || v > bestUtility || (isNaN(bestUtility) && !isNaN(v)) {
			best, bestUtility, found = i, v, true
		}
	}
	return best, found, errors.Join(warnings...)
}

func isNaN(v AttributeValue) bool { return v != v }

// Strategy names accepted by FinderByName.
const (
	StrategyByCondition   = "condition"
	StrategyByBestUtility = "best-utility"
)

// FinderByName returns the MethodFinder registered under name.
func FinderByName(name string) (MethodFinder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyByCondition, "by-condition":
		return ByCondition{}, nil
	case StrategyByBestUtility, "by-best-utility", "utility":
		return ByBestUtility{}, nil
	default:
		return nil, fmt.Errorf("unknown method selection strategy %q (want %s or %s)", name, StrategyByCondition, StrategyByBestUtility)
	}
}
