// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package redis

// Key layout for a deployment prefix P:
//
//	P:requests                    global counter of all requests ever created
//	P:bins:{name}:details         serialized bin record, expires at created+ttl
//	P:bins:{name}:requests        ordered list of request ids, expires at created+ttl+1
//	P:bins:{name}:requests:{id}   serialized request record, expires at created+ttl+2
//
// The fixed literal suffixes keep the four purposes distinguishable under
// prefix enumeration; no two logical keys can collide on the same string.

func binKey(prefix, name string) string {
	return prefix + ":bins:" + name + ":details"
}

func requestIndexKey(prefix, name string) string {
	return prefix + ":bins:" + name + ":requests"
}

func requestKey(prefix, name, id string) string {
	return prefix + ":bins:" + name + ":requests:" + id
}

func requestCountKey(prefix string) string {
	return prefix + ":requests"
}

// binKeyPattern matches exactly the details keys, one per live bin.
func binKeyPattern(prefix string) string {
	return prefix + ":bins:*:details"
}
