package autodiff

import (
	"github.com/gomlx/exceptions"
)

// CollectCallRecords returns every FunctionCall reachable backwards from
// outputs, each exactly once, in depth-first discovery order.
func CollectCallRecords(outputs []Computed) []*FunctionCall {
	var records []*FunctionCall
	visited := make(map[*FunctionCall]bool)
	var stack []*FunctionCall
	for _, out := range outputs {
		if fc := out.Creator(); fc != nil && !visited[fc] {
			visited[fc] = true
			stack = append(stack, fc)
		}
	}
	for len(stack) > 0 {
		fc := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		records = append(records, fc)
		for _, in := range fc.inputs {
			if p := in.Creator(); p != nil && !visited[p] {
				visited[p] = true
				stack = append(stack, p)
			}
		}
	}
	return records
}

// SortForBackward orders records so that every record comes after all the
// records producing its inputs. Gradients walk the result in reverse.
//
// Records are keyed by pointer identity. A record is ready once every
// graph-bearing input comes from an already sorted record, or from a record
// outside the given set. If a pass makes no progress the graph contains a
// cycle, which is fatal.
//
// Passes scan the records in reverse, so records in CollectCallRecords order
// (consumers before producers) are sorted in a single pass.
func SortForBackward(records []*FunctionCall) []*FunctionCall {
	inSet := make(map[*FunctionCall]bool, len(records))
	for _, fc := range records {
		inSet[fc] = true
	}
	sorted := make([]*FunctionCall, 0, len(records))
	done := make(map[*FunctionCall]bool, len(records))
	pending := make([]*FunctionCall, len(records))
	for i, fc := range records {
		pending[len(records)-1-i] = fc
	}
	for len(pending) > 0 {
		var notReady []*FunctionCall
		for _, fc := range pending {
			if isReady(fc, inSet, done) {
				sorted = append(sorted, fc)
				done[fc] = true
			} else {
				notReady = append(notReady, fc)
			}
		}
		if len(notReady) == len(pending) {
			exceptions.Panicf("cycle detected in computation graph (%d records unresolved)", len(notReady))
		}
		pending = notReady
	}
	return sorted
}

func isReady(fc *FunctionCall, inSet, done map[*FunctionCall]bool) bool {
	for _, in := range fc.inputs {
		p := in.Creator()
		if p != nil && inSet[p] && !done[p] {
			return false
		}
	}
	return true
}
