package core

// Version of the linesplit tool, set at build time.
var Version = "0.0.0"

// GitSHA of the build, set at build time.
var GitSHA = "0000000"

// MaxIterations caps the number of fragments popped from the worklist for
// a single splitter. Zero or less means no cap.
var MaxIterations = 10000

// IndexGeometry is the minimum number of points in a line before the
// intersection engine builds a segment index for it.
var IndexGeometry = 16

// IndexKind is the kind of segment index built by the intersection engine.
// One of "None", "RTree" or "QuadTree".
var IndexKind = "QuadTree"
