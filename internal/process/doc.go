// Package process isolates child processes in their own group and
// terminates whole process trees.
package process
