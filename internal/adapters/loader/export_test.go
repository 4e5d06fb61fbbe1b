// export_test.go exports private functions for white-box testing.
package loader

// CopyAtomic exports copyAtomic for tests.
var CopyAtomic = copyAtomic
