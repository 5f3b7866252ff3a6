// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package wire

import "github.com/dblokhin/p2pool/pack"

// BlockHeader is Bitcoin's 80-byte block header: version, previous block
// hash, merkle root, timestamp, compact target, and nonce. bits is decoded
// through FloatingInteger so its expanded target is available without a
// second pass.
var BlockHeader = pack.NewComposite(
	pack.Field("version", pack.Integer(32, true)),
	pack.Field("previous_block", pack.FixedStr(32)),
	pack.Field("merkle_root", pack.FixedStr(32)),
	pack.Field("timestamp", pack.Integer(32, true)),
	pack.Field("bits", pack.FloatingInteger),
	pack.Field("nonce", pack.Integer(32, true)),
)
