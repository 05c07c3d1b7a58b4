package main

import (
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/jdeng/goheif/heif"
	"github.com/jdeng/goheif/heif/bmff"
	"github.com/pkg/errors"
)

// FourCC is a four character code naming an item or box type.
type FourCC [4]byte

func fourCC(s string) FourCC {
	var c FourCC
	copy(c[:], s)
	return c
}

func (c FourCC) String() string {
	return string(c[:])
}

var exifItemType = FourCC{'E', 'x', 'i', 'f'}

// MetadataItem is a non-image item attached to an image through a
// "cdsc" (content describes) reference. Err is set when the item data
// could not be read.
type MetadataItem struct {
	ID   uint32
	Type FourCC
	Data []byte
	Err  error
}

type itemInfo struct {
	id  uint32
	typ FourCC
}

type itemRef struct {
	typ  FourCC
	from uint32
	to   []uint32
}

// Container is an open HEIF file. It is read-only and must be closed.
//
// Methods on Container should not be called concurrently.
type Container struct {
	path string
	f    *os.File
	size int64
	hf   *heif.File

	items []itemInfo
	refs  []itemRef
}

// OpenContainer opens the HEIF file at path and reads its meta box.
func OpenContainer(path string) (*Container, error) {
	if path == "" {
		return nil, errors.Wrap(ErrInvalidPath, "empty path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrContainerOpen, "%v", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(ErrContainerOpen, "%v", err)
	}
	if fi.IsDir() {
		f.Close()
		return nil, errors.Wrapf(ErrInvalidPath, "%s is a directory", path)
	}

	c := &Container{
		path: path,
		f:    f,
		size: fi.Size(),
		hf:   heif.Open(f),
	}
	if err := c.readMeta(); err != nil {
		f.Close()
		return nil, errors.Wrapf(ErrContainerOpen, "%s: %v", path, err)
	}
	return c, nil
}

// Close releases the underlying file.
func (c *Container) Close() error {
	return c.f.Close()
}

// Path returns the path the container was opened from.
func (c *Container) Path() string {
	return c.path
}

func (c *Container) readMeta() error {
	r := bmff.NewReader(io.NewSectionReader(c.f, 0, c.size))
	if _, err := r.ReadAndParseBox(bmff.TypeFtyp); err != nil {
		return errors.Wrap(err, "reading ftyp box")
	}
	meta, err := nextMetaBox(r)
	if err != nil {
		return err
	}

	for _, box := range meta.Children {
		switch box.Type().String() {
		case "iinf":
			p, err := box.Parse()
			if err != nil {
				return errors.Wrap(err, "parsing iinf box")
			}
			iinf, ok := p.(*bmff.ItemInfoBox)
			if !ok {
				return errors.Errorf("unexpected iinf box type %T", p)
			}
			for _, ife := range iinf.ItemInfos {
				c.items = append(c.items, itemInfo{
					id:  uint32(ife.ItemID),
					typ: fourCC(ife.ItemType),
				})
			}
		case "iref":
			body, err := io.ReadAll(box.Body())
			if err != nil {
				return errors.Wrap(err, "reading iref box")
			}
			refs, err := parseItemReferences(body)
			if err != nil {
				return err
			}
			c.refs = append(c.refs, refs...)
		}
	}
	sort.SliceStable(c.items, func(i, j int) bool {
		return c.items[i].id < c.items[j].id
	})
	return nil
}

// nextMetaBox skips top-level boxes such as mdat, free or skip that may
// precede the meta box.
func nextMetaBox(r *bmff.Reader) (*bmff.MetaBox, error) {
	for {
		box, err := r.ReadBox()
		if err != nil {
			return nil, errors.Wrap(err, "reading meta box")
		}
		if box.Type() != bmff.TypeMeta {
			continue
		}
		pbox, err := box.Parse()
		if err != nil {
			return nil, errors.Wrap(err, "parsing meta box")
		}
		meta, ok := pbox.(*bmff.MetaBox)
		if !ok {
			return nil, errors.Errorf("unexpected meta box type %T", pbox)
		}
		return meta, nil
	}
}

// parseItemReferences decodes the body of an iref full box into one entry
// per SingleItemTypeReferenceBox.
func parseItemReferences(body []byte) ([]itemRef, error) {
	if len(body) < 4 {
		return nil, errors.New("iref: short box")
	}
	idSize := 2
	if body[0] != 0 {
		idSize = 4
	}
	readID := func(p []byte) uint32 {
		if idSize == 2 {
			return uint32(binary.BigEndian.Uint16(p))
		}
		return binary.BigEndian.Uint32(p)
	}

	var refs []itemRef
	p := body[4:]
	for len(p) > 0 {
		if len(p) < 8 {
			return nil, errors.New("iref: truncated reference box")
		}
		size := binary.BigEndian.Uint32(p)
		if size < 8 || uint64(size) > uint64(len(p)) {
			return nil, errors.Errorf("iref: bad reference box size %d", size)
		}
		var ref itemRef
		copy(ref.typ[:], p[4:8])
		b := p[8:size]
		if len(b) < idSize+2 {
			return nil, errors.Errorf("iref: truncated %q reference", ref.typ)
		}
		ref.from = readID(b)
		n := int(binary.BigEndian.Uint16(b[idSize:]))
		b = b[idSize+2:]
		if len(b) < n*idSize {
			return nil, errors.Errorf("iref: %q reference lists %d items, room for %d", ref.typ, n, len(b)/idSize)
		}
		for i := 0; i < n; i++ {
			ref.to = append(ref.to, readID(b[i*idSize:]))
		}
		refs = append(refs, ref)
		p = p[size:]
	}
	return refs, nil
}

// referencing returns the items that hold a typ reference to id.
func (c *Container) referencing(typ string, id uint32) []uint32 {
	var ids []uint32
	for _, r := range c.refs {
		if r.typ.String() != typ {
			continue
		}
		for _, to := range r.to {
			if to == id {
				ids = append(ids, r.from)
				break
			}
		}
	}
	return ids
}

// referenced returns the targets of the typ references held by id.
func (c *Container) referenced(typ string, id uint32) []uint32 {
	var ids []uint32
	for _, r := range c.refs {
		if r.typ.String() == typ && r.from == id {
			ids = append(ids, r.to...)
		}
	}
	return ids
}

func (c *Container) itemType(id uint32) (FourCC, bool) {
	for _, info := range c.items {
		if info.id == id {
			return info.typ, true
		}
	}
	return FourCC{}, false
}

// PrimaryImage returns a handle to the container's primary image.
func (c *Container) PrimaryImage() (*ImageHandle, error) {
	it, err := c.hf.PrimaryItem()
	if err != nil {
		return nil, errors.Wrapf(ErrNoPrimaryImage, "%s: %v", c.path, err)
	}
	return &ImageHandle{c: c, item: it}, nil
}

// ImageHandle is an image item of an open Container.
type ImageHandle struct {
	c    *Container
	item *heif.Item
}

// ID returns the item ID of the image.
func (h *ImageHandle) ID() uint32 {
	return h.item.ID
}

// Type returns the item type of the image, such as "hvc1" or "grid".
func (h *ImageHandle) Type() FourCC {
	return fourCC(h.item.Info.ItemType)
}

// Metadata returns all metadata items describing the image, ordered by
// item ID. An item whose data can't be read is returned with Err set, so
// that one broken item does not hide the others.
func (h *ImageHandle) Metadata() []MetadataItem {
	describes := make(map[uint32]bool)
	for _, id := range h.c.referencing("cdsc", h.item.ID) {
		describes[id] = true
	}

	var items []MetadataItem
	for _, info := range h.c.items {
		if !describes[info.id] {
			continue
		}
		mi := MetadataItem{ID: info.id, Type: info.typ}
		mi.Data, mi.Err = h.c.itemData(info)
		items = append(items, mi)
	}
	return items
}

func (c *Container) itemData(info itemInfo) ([]byte, error) {
	it, err := c.hf.ItemByID(info.id)
	if err != nil {
		return nil, errors.Wrapf(err, "metadata item %d", info.id)
	}
	data, err := c.hf.GetItemData(it)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q item %d", info.typ, info.id)
	}
	return data, nil
}
