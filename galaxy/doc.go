// Package galaxy generates spiral-galaxy point clouds.
//
// Params is a validated configuration value. Build turns Params and a
// Source into a Cloud of flat position and color buffers. Generator owns the
// current Cloud and replaces it through a Sink: the prior cloud is detached
// and released before the next one is allocated, so at most one generation's
// buffers are alive at a time.
package galaxy
