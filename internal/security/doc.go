// Package security provides the file collaborators used by sealfile:
// PathValidator confines access to one directory through os.Root, and
// OSFiles gives unrestricted access for explicitly named paths.
package security
