// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package list

func (l *List[T, A]) checkSplice(dst *List[T, A]) error {
	if dst == l {
		return ErrSelfSplice
	}
	if any(l.alloc) != any(dst.alloc) {
		return ErrForeignAllocator
	}
	return nil
}

// SpliceAppend moves every element of l onto the end of dst in O(1),
// leaving l empty. Both lists must share the same allocator.
func (l *List[T, A]) SpliceAppend(dst *List[T, A]) error {
	if err := l.checkSplice(dst); err != nil {
		return err
	}
	l.ring.SpliceBack(&dst.ring, true)
	dst.len += l.len
	l.len = 0
	return nil
}

// SpliceInsert moves every element of l onto the front of dst in O(1),
// leaving l empty. Both lists must share the same allocator.
func (l *List[T, A]) SpliceInsert(dst *List[T, A]) error {
	if err := l.checkSplice(dst); err != nil {
		return err
	}
	l.ring.SpliceFront(&dst.ring, true)
	dst.len += l.len
	l.len = 0
	return nil
}

// SpliceAppendShared links the elements of l onto the end of dst without
// removing them from l. The elements are then owned by both lists:
// forward traversal of l still visits them but any other operation on l
// that touches them may corrupt dst. Exactly one of the two lists may
// Clear the shared elements, the other must be emptied with Abandon.
//
// Deprecated: the shared elements have no single owner, use SpliceAppend.
func (l *List[T, A]) SpliceAppendShared(dst *List[T, A]) error {
	if err := l.checkSplice(dst); err != nil {
		return err
	}
	l.ring.SpliceBack(&dst.ring, false)
	dst.len += l.len
	return nil
}

// SpliceInsertShared is like SpliceAppendShared but links the elements
// onto the front of dst.
//
// Deprecated: the shared elements have no single owner, use SpliceInsert.
func (l *List[T, A]) SpliceInsertShared(dst *List[T, A]) error {
	if err := l.checkSplice(dst); err != nil {
		return err
	}
	l.ring.SpliceFront(&dst.ring, false)
	dst.len += l.len
	return nil
}
