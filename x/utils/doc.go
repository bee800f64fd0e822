/*
Package utils contains the decorators every fundingd transaction passes
through: logging, panic recovery and savepoints.
*/
package utils
