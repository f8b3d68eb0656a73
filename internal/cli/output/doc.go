// Package output renders relay-cli results as a table, JSON or YAML.
//
// Values that know how to lay themselves out implement Tabular; any other
// struct is printed as a FIELD/VALUE listing keyed by its json tags.
package output
