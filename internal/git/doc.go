// Package git checks that sealed plaintext stays out of version control.
//
// It shells out to the git binary; when git is missing or the directory
// is not a repository every check reports "not a repo" and status omits
// the section.
package git
