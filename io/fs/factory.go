package fs

type FsType int8

const (
	InMemory FsType = iota
	LocalDisk
)

type Factory struct {
}

func (f *Factory) Create(fsType FsType) Fs {
	switch fsType {
	case InMemory:
		return NewMemoryFs()
	case LocalDisk:
		return NewLocalFs()
	default:
		panic("unknown fs type")
	}
}

func NewFsFactory() *Factory {
	return &Factory{}
}
