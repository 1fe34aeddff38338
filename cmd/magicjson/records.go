package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hengadev/magicjson/examples/db"
)

// records maps the --type values to the sample record types.
var records = map[string]func() any{
	"employee": func() any { return &db.Employee{} },
	"group":    func() any { return &db.CompanyGroup{} },
	"list":     func() any { return &db.EmployeeList{} },
}

func newRecord(kind string) (any, error) {
	ctor, ok := records[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record type %q, want one of %s", kind, strings.Join(recordKinds(), ", "))
	}
	return ctor(), nil
}

func recordKinds() []string {
	kinds := make([]string, 0, len(records))
	for k := range records {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
