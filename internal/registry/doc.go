// SPDX-License-Identifier: MPL-2.0

// Package registry stores the mapping from mod name to mod folder.
//
// The registry is a JSON object persisted after every mutation:
//
//	{
//	    "MyMod": {
//	        "mod_path": "/home/me/mods/MyMod"
//	    }
//	}
//
// Key order follows insertion order. A missing or corrupted file is replaced
// with an empty object on load instead of failing.
package registry
