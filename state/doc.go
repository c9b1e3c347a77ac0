// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage.
//
// Storage is a flat (contract address, slot) -> rlp value space. Writes are journaled in
// a stacked map so a checkpoint can be reverted, and only reach the backing kv store when
// a Stage is committed.
package state
