/*
Package lineimport reads fixed-arity delimited records, one per line.

A Schema names the arity, the separator and a builder that turns a Record
into an entity:

	schema := lineimport.Schema[Student]{
	    Arity: 3,
	    Build: func(r lineimport.Record) (Student, error) {
	        id, err := r.Int(0, "id")
	        if err != nil {
	            return Student{}, err
	        }
	        score, err := r.Int(2, "score")
	        if err != nil {
	            return Student{}, err
	        }
	        return Student{ID: id, Name: r.String(1), Score: score}, nil
	    },
	}
	students, err := lineimport.Parse(schema, []string{"1,Alice,85", "2,Bob,92"})

Fields are trimmed before parsing. A line with the wrong number of fields is
a missing field error, a field that does not parse is a bad format error, and
parsing stops at the first bad line without returning any entities.
*/
package lineimport
