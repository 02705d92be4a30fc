// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides recording, controllable stand-ins for the driver's collaborators.
package fake
