// Package io provides the text adapters around the simulator: loading
// of hexadecimal register, memory and program images, the operator
// console used in single step mode, and the per-instruction trace
// report.
package io
