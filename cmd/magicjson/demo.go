package main

import (
	"fmt"
	"io"

	"github.com/hengadev/magicjson"
	"github.com/hengadev/magicjson/examples/db"
)

// runDemo encodes and decodes the sample records and prints each step.
func runDemo(w io.Writer, codec *magicjson.Codec) error {
	g1 := db.CompanyGroup{ID: 55, Name: "Specialists"}
	fmt.Fprintf(w, "\ng1: %s\n", codec.Encode(g1))

	e1 := db.Employee{ID: 47, Age: 48, GroupID: 0, Salary: 999999.99, Name: "Agent"}
	e1Text := codec.Encode(e1)
	fmt.Fprintf(w, "\ne1: %s\n", e1Text)

	e1Copy, err := magicjson.DecodeWith[db.Employee](codec, e1Text)
	if err != nil {
		return fmt.Errorf("decode e1: %w", err)
	}
	fmt.Fprintf(w, "\ne1 deserialized from json\n%v %v %v %v %v\n", e1Copy.ID, e1Copy.Age, e1Copy.GroupID, e1Copy.Salary, e1Copy.Name)

	e2 := db.Employee{ID: 37, Age: 22, GroupID: 3, Salary: 3.50, Name: "Intern"}

	list := db.EmployeeList{Name: "Office Party", StateOfDrunk: 2.3, Employees: []db.Employee{e1, e2}}
	listText := codec.Encode(list)
	fmt.Fprintf(w, "\ne_list: %s\n", listText)

	listCopy, err := magicjson.DecodeWith[db.EmployeeList](codec, listText)
	if err != nil {
		return fmt.Errorf("decode e_list: %w", err)
	}
	if len(listCopy.Employees) < 2 {
		return fmt.Errorf("decode e_list: got %d employees, want 2", len(listCopy.Employees))
	}
	fmt.Fprintf(w, "\ne_list_copy: name: %v drunk%%: %v\nemployee1 name: %v\nemployee1 name: %v\n",
		listCopy.Name, listCopy.StateOfDrunk, listCopy.Employees[0].Name, listCopy.Employees[1].Name)

	return nil
}
