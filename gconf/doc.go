/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension owns one configuration singleton, stored under a key derived
from the extension's package name. The configuration is loaded from the
genesis file ("conf" section) and read back with Load. Extensions decide
themselves whether a missing singleton falls back to defaults.
*/
package gconf
