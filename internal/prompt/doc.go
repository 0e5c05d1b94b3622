// Package prompt is the interactive text dialogue: menus, parameter entry
// and the ask-again loop. Input is read line by line, so a session can be
// scripted from any io.Reader.
package prompt
