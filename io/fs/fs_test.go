package fs_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/columnkit/arrowipc/io/fs"
)

type MemoryFsTestSuite struct {
	suite.Suite
	fs fs.Fs
}

func (suite *MemoryFsTestSuite) SetupTest() {
	suite.fs = fs.NewMemoryFs()
}

func (suite *MemoryFsTestSuite) TestOpenWriteRead() {
	file, err := suite.fs.OpenFile("a")
	suite.NoError(err)
	n, err := file.Write([]byte{1, 2, 3})
	suite.NoError(err)
	suite.Equal(3, n)
	suite.NoError(file.Close())

	file, err = suite.fs.OpenFile("a")
	suite.NoError(err)
	buf := make([]byte, 10)
	n, err = file.Read(buf)
	suite.Equal(io.EOF, err)
	suite.Equal(3, n)
	suite.ElementsMatch(buf[:n], []byte{1, 2, 3})
}

func (suite *MemoryFsTestSuite) TestRename() {
	file, err := suite.fs.OpenFile("a")
	suite.NoError(err)
	_, err = file.Write([]byte{1})
	suite.NoError(err)

	suite.NoError(suite.fs.Rename("a", "b"))

	exist, err := suite.fs.Exist("a")
	suite.NoError(err)
	suite.False(exist)
	content, err := suite.fs.ReadFile("b")
	suite.NoError(err)
	suite.EqualValues([]byte{1}, content)
}

func (suite *MemoryFsTestSuite) TestDeleteFile() {
	file, err := suite.fs.OpenFile("a")
	suite.NoError(err)
	_, err = file.Write([]byte{1})
	suite.NoError(err)

	suite.NoError(suite.fs.DeleteFile("a"))
	exist, err := suite.fs.Exist("a")
	suite.NoError(err)
	suite.False(exist)
}

func (suite *MemoryFsTestSuite) TestList() {
	for _, path := range []string{"x/a", "x/b", "y/c"} {
		_, err := suite.fs.OpenFile(path)
		suite.NoError(err)
	}
	entries, err := suite.fs.List("x/")
	suite.NoError(err)
	suite.Len(entries, 2)
}

func (suite *MemoryFsTestSuite) TestReopenDoesNotAliasStoredBytes() {
	file, err := suite.fs.OpenFile("a")
	suite.NoError(err)
	_, err = file.Write([]byte{1, 2, 3})
	suite.NoError(err)
	suite.NoError(file.Close())

	reopened, err := suite.fs.OpenFile("a")
	suite.NoError(err)
	_, err = reopened.Write([]byte{9})
	suite.NoError(err)

	content, err := suite.fs.ReadFile("a")
	suite.NoError(err)
	suite.EqualValues([]byte{1, 2, 3}, content)
}

func TestMemoryFsSuite(t *testing.T) {
	suite.Run(t, &MemoryFsTestSuite{})
}

func TestFactoryCreate(t *testing.T) {
	created := fs.NewFsFactory().Create(fs.InMemory)
	if _, ok := created.(*fs.MemoryFs); !ok {
		t.Fatalf("expected *fs.MemoryFs, got %T", created)
	}
	created = fs.NewFsFactory().Create(fs.LocalDisk)
	if _, ok := created.(*fs.LocalFS); !ok {
		t.Fatalf("expected *fs.LocalFS, got %T", created)
	}
}

func TestBuildFileSystem(t *testing.T) {
	res := fs.BuildFileSystem("memory://")
	if !res.Ok() {
		t.Fatalf("memory fs: %v", res.Status())
	}
	res = fs.BuildFileSystem("file:///tmp")
	if !res.Ok() {
		t.Fatalf("local fs: %v", res.Status())
	}
	res = fs.BuildFileSystem("ftp://unknown")
	if res.Ok() {
		t.Fatal("expected unknown scheme to fail")
	}
	if !res.Status().IsInvalidArgument() {
		t.Fatalf("expected invalid argument, got %v", res.Status())
	}
}
