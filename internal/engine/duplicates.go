package engine

import (
	"fmt"
	"strings"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

type duplicateKey struct {
	code     ir.AssemblyCode
	takeoff  bool
	category string
}

// MarkDuplicates groups records that carry a FILTER item and a valid code
// by code, takeoff flag and category. Every member of a group of two or more receives a
// DUPLICATE warning naming the other members. It returns the number of
// groups found.
func MarkDuplicates(records []ir.ElementRecord) int {
	groups := map[duplicateKey][]int{}
	var order []duplicateKey
	for i, r := range records {
		if r.System || !r.Code.Valid() || !r.Has(ir.KindFilter) {
			continue
		}
		k := duplicateKey{code: r.Code, takeoff: r.IsMaterialTakeoff, category: r.Category}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	n := 0
	for _, k := range order {
		members := groups[k]
		if len(members) < 2 {
			continue
		}
		n++
		for _, i := range members {
			var others []string
			for _, j := range members {
				if j != i {
					others = append(others, fmt.Sprintf("%s (#%d)", records[j].Name, records[j].ID))
				}
			}
			records[i].Add(ir.Warn(ir.KindDuplicate, records[i].Name, "",
				fmt.Sprintf("%s is also scheduled by %s", k.code, strings.Join(others, ", "))))
		}
	}
	return n
}
