package account

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"io/ioutil"
	"os"
	"strings"

	"github.com/azd1997/ego/utils"
	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/crypto"
	"github.com/azd1997/emsg/common/log"
	"github.com/azd1997/emsg/protocol/message"
)

var logger = log.NewLogger("account")

// Account 账户，持有签名私钥. 公钥和地址都由私钥导出
type Account struct {
	PrivateKey *crypto.PrivateKey `json:"privKey"`
}

// NewAccount 新建账户
func NewAccount() (*Account, error) {
	privateKey, err := crypto.NewPrivateKeyS256()
	if err != nil {
		return nil, errors.Wrap(err, "NewAccount")
	}
	return &Account{PrivateKey: privateKey}, nil
}

// LoadOrCreateAccount 从指定路径加载账户，加载不到就新建并保存.
// .json 后缀用json编码，其余一律gob
func LoadOrCreateAccount(accountFile string) (acc *Account, err error) {
	exists, err := utils.FileExists(accountFile)
	if err != nil {
		return nil, errors.Wrap(err, "LoadOrCreateAccount")
	}

	jsonSuffix := strings.HasSuffix(accountFile, ".json")

	if !exists {
		logger.Info("account file %s not found, creating a new account", accountFile)
		acc, err = NewAccount()
		if err != nil {
			return nil, err
		}
		if jsonSuffix {
			err = acc.SaveFileWithJsonEncode(accountFile)
		} else {
			err = acc.SaveFileWithGobEncode(accountFile)
		}
		if err != nil {
			return nil, err
		}
		logger.Info("new account saved to %s, address: %s", accountFile, acc.Address())
		return acc, nil
	}

	return loadAccount(accountFile, jsonSuffix)
}

// ErrNoAccountFile 账户文件不存在
var ErrNoAccountFile = errors.New("no account file")

// LoadAccount 只加载不新建，文件不存在时返回 ErrNoAccountFile
func LoadAccount(accountFile string) (*Account, error) {
	exists, err := utils.FileExists(accountFile)
	if err != nil {
		return nil, errors.Wrap(err, "LoadAccount")
	}
	if !exists {
		return nil, errors.Wrapf(ErrNoAccountFile, "LoadAccount: %s", accountFile)
	}
	return loadAccount(accountFile, strings.HasSuffix(accountFile, ".json"))
}

func loadAccount(accountFile string, jsonSuffix bool) (acc *Account, err error) {
	acc = &Account{}
	if jsonSuffix {
		err = acc.LoadFileWithJsonDecode(accountFile)
	} else {
		err = acc.LoadFileWithGobDecode(accountFile)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("account loaded from %s, address: %s", accountFile, acc.Address())
	return acc, nil
}

///////////////////////////////////////////////////////////////////////////////////

// String 打印公钥和地址，不打印私钥
func (a *Account) String() string {
	return utils.JsonMarshalIndentToString(struct {
		PublicKey string `json:"pubKey"`
		Address   string `json:"address"`
	}{a.PublicKey().ToHex(), a.Address().String()})
}

func (a *Account) PublicKey() crypto.PublicKey {
	return crypto.PublicKeyOf(a.PrivateKey)
}

func (a *Account) Address() crypto.Address {
	return a.PublicKey().Address()
}

// Sign 使用该账号对目标数据作签名
func (a *Account) Sign(target []byte) (crypto.Signature, error) {
	return crypto.Sign(a.PrivateKey, target)
}

// VerifySign 验证签名; 这个pubKey不一定是本账户的PubKey
func (a *Account) VerifySign(target []byte, sig crypto.Signature, pubKey crypto.PublicKey) bool {
	return crypto.Verify(pubKey, target, sig) == nil
}

// SignMessage 用该账户签名并结束构造
func (a *Account) SignMessage(b *message.Builder) (message.Message, error) {
	return b.Sign(a.PrivateKey)
}

///////////////////////////////////////////////////////////////////////////////////

// SaveFileWithGobEncode 保存到文件
func (a *Account) SaveFileWithGobEncode(file string) (err error) {
	if err = utils.SaveFileWithGobEncode(file, a.toaccount()); err != nil {
		return errors.Wrap(err, "Account_SaveFile")
	}
	return nil
}

// LoadFileWithGobDecode 从本地文件中读取账户
func (a *Account) LoadFileWithGobDecode(file string) (err error) {
	fileContent, err := readAccountFile(file)
	if err != nil {
		return err
	}

	a1 := &account{}
	if err = gob.NewDecoder(bytes.NewReader(fileContent)).Decode(a1); err != nil {
		return errors.Wrap(err, "Account_LoadFile")
	}
	return a.fromaccount(a1)
}

// SaveFileWithJsonEncode 保存到文件
func (a *Account) SaveFileWithJsonEncode(file string) (err error) {
	if err = utils.SaveFileWithJsonMarshal(file, a.toaccount()); err != nil {
		return errors.Wrap(err, "Account_SaveFile")
	}
	return nil
}

// LoadFileWithJsonDecode 从本地文件中读取账户
func (a *Account) LoadFileWithJsonDecode(file string) (err error) {
	fileContent, err := readAccountFile(file)
	if err != nil {
		return err
	}

	a1 := &account{}
	if err = json.Unmarshal(fileContent, a1); err != nil {
		return errors.Wrap(err, "Account_LoadFile")
	}
	return a.fromaccount(a1)
}

func readAccountFile(file string) ([]byte, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrap(err, "Account_LoadFile")
	}
	fileContent, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "Account_LoadFile")
	}
	return fileContent, nil
}

///////////////////////////////////////////////////////////////////////////////////

// 编码保存相关

type account struct {
	PrivKeyB []byte `json:"privKeyB"`
}

func (a *account) toAccount() (*Account, error) {
	priv, err := crypto.PrivKeyFromBytesS256(a.PrivKeyB)
	if err != nil {
		return nil, err
	}
	return &Account{PrivateKey: priv}, nil
}

func (a *Account) toaccount() *account {
	return &account{PrivKeyB: a.PrivateKey.Serialize()}
}

func (a *Account) fromaccount(a1 *account) error {
	a2, err := a1.toAccount()
	if err != nil {
		return errors.Wrap(err, "Account_LoadFile")
	}
	a.PrivateKey = a2.PrivateKey
	return nil
}
