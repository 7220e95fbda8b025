package utils

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// SecretTestSuite 凭证加密测试套件
type SecretTestSuite struct {
	suite.Suite
	sealer *Sealer
}

func (suite *SecretTestSuite) SetupTest() {
	suite.sealer = NewSealer("local-secret")
}

// 测试加密解密
func (suite *SecretTestSuite) TestSealAndOpen() {
	sealed, err := suite.sealer.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	suite.NoError(err)
	suite.True(IsSealed(sealed))
	suite.NotContains(sealed, "payload")

	plain, err := suite.sealer.Open(sealed)
	suite.NoError(err)
	suite.Equal("eyJhbGciOiJIUzI1NiJ9.payload.sig", plain)
}

// 测试相同明文生成不同密文
func (suite *SecretTestSuite) TestSealUniqueness() {
	a, err1 := suite.sealer.Seal("same")
	b, err2 := suite.sealer.Seal("same")
	suite.NoError(err1)
	suite.NoError(err2)
	suite.NotEqual(a, b)
}

// 测试错误密钥
func (suite *SecretTestSuite) TestOpenWithWrongSecret() {
	sealed, _ := suite.sealer.Seal("token")

	_, err := NewSealer("other-secret").Open(sealed)
	suite.Error(err)
}

// 测试格式错误
func (suite *SecretTestSuite) TestOpenInvalidFormat() {
	_, err := suite.sealer.Open("plain-token")
	suite.ErrorIs(err, ErrSealedFormat)
	suite.False(IsSealed("plain-token"))
}

// 测试空密钥不加密
func (suite *SecretTestSuite) TestEmptySecret() {
	suite.Nil(NewSealer(""))
}

func TestSecretSuite(t *testing.T) {
	suite.Run(t, new(SecretTestSuite))
}
