// Package bench times First Fit and First Fit Decreasing over generated or
// stored inputs and reports the results as CSV blocks or a console table.
package bench
