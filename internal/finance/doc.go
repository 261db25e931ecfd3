// Package finance derives the financial state of the ledger from a snapshot
// of properties, tenants, payments and expenses.
//
// Every function here is pure: it reads only its arguments and an explicit
// asOf instant, never the system clock. Month buckets always use the UTC
// calendar month of a record's date. Amounts are decimal and never pass
// through binary floating point.
package finance
