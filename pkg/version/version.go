package version

// EmptyValue is the value we use when running a version that wasn't compiled
// by `make`. This is helpful for telling when we're running in a unit test.
const EmptyValue = "set-by-make"

// Version is the latest tag on git for releases. On non-release commits, it may
// include the branch and the most recent commit hash, with a `.dirty` suffix
// when the tree had uncommitted changes.
var Version = EmptyValue
