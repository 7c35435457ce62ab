package fs_test

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/columnkit/arrowipc/common/errors"
	"github.com/columnkit/arrowipc/io/fs"
)

// Requires a running MinIO, e.g.
// MINIO_TEST_URI='s3://minioadmin:minioadmin@default?endpoint_override=localhost%3A9000'
type MinioFsTestSuite struct {
	suite.Suite
	fs fs.Fs
}

func (suite *MinioFsTestSuite) SetupSuite() {
	uri := os.Getenv("MINIO_TEST_URI")
	if uri == "" {
		suite.T().Skip("MINIO_TEST_URI not set")
	}
	res := fs.BuildFileSystem(uri)
	suite.Require().True(res.Ok(), "building minio fs: %v", res.Status())
	suite.fs = res.Value()
}

func (suite *MinioFsTestSuite) TestMinioOpenFile() {
	file, err := suite.fs.OpenFile("a")
	suite.NoError(err)
	n, err := file.Write([]byte{1})
	suite.NoError(err)
	suite.Equal(1, n)
	suite.NoError(file.Close())

	file, err = suite.fs.OpenFile("a")
	suite.NoError(err)
	buf := make([]byte, 10)
	n, err = file.Read(buf)
	suite.Equal(io.EOF, err)
	suite.Equal(1, n)
	suite.ElementsMatch(buf[:n], []byte{1})
}

func (suite *MinioFsTestSuite) TestMinioRename() {
	file, err := suite.fs.OpenFile("a")
	suite.NoError(err)
	n, err := file.Write([]byte{1})
	suite.NoError(err)
	suite.Equal(1, n)
	suite.NoError(file.Close())

	err = suite.fs.Rename("a", "b")
	suite.NoError(err)

	content, err := suite.fs.ReadFile("b")
	suite.NoError(err)
	suite.EqualValues([]byte{1}, content)
}

func (suite *MinioFsTestSuite) TestMinioFsDeleteFile() {
	file, err := suite.fs.OpenFile("a")
	suite.NoError(err)
	n, err := file.Write([]byte{1})
	suite.NoError(err)
	suite.Equal(1, n)
	suite.NoError(file.Close())

	err = suite.fs.DeleteFile("a")
	suite.NoError(err)

	exist, err := suite.fs.Exist("a")
	suite.NoError(err)
	suite.False(exist)
}

func (suite *MinioFsTestSuite) TestMinioFsExist() {
	exist, err := suite.fs.Exist("nonexist")
	suite.NoError(err)
	suite.False(exist)

	file, err := suite.fs.OpenFile("exist")
	suite.NoError(err)
	n, err := file.Write([]byte{1})
	suite.NoError(err)
	suite.Equal(1, n)
	suite.NoError(file.Close())

	exist, err = suite.fs.Exist("exist")
	suite.NoError(err)
	suite.True(exist)
}

func TestMinioFsSuite(t *testing.T) {
	suite.Run(t, &MinioFsTestSuite{})
}

func TestExtractFileName(t *testing.T) {
	name, err := fs.ExtractFileName("bucket/dir/data.arrow")
	assert.NoError(t, err)
	assert.Equal(t, "dir/data.arrow", name)

	_, err = fs.ExtractFileName("no-separator")
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}
