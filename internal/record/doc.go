// Package record defines the daily survey record and its fixed column schema.
//
// A SurveyRecord is a plain value: it has no identity beyond its ID field and
// holds no references to the store that persists it. Column order is fixed by
// Columns and is shared by the header row and every data row of the backing
// CSV file.
//
// The store never validates records. Producers (the CLI add command) call
// Normalize and Validate before handing a record to the store.
package record
