package utils

import (
	"bytes"
	"fmt"
)

// 测试用的比较函数，不相等时返回描述性的错误

func TCheckBool(item string, expect, result bool) error {
	if expect != result {
		return fmt.Errorf("%s: expect %v, got %v", item, expect, result)
	}
	return nil
}

func TCheckInt(item string, expect, result int) error {
	if expect != result {
		return fmt.Errorf("%s: expect %d, got %d", item, expect, result)
	}
	return nil
}

func TCheckInt64(item string, expect, result int64) error {
	if expect != result {
		return fmt.Errorf("%s: expect %d, got %d", item, expect, result)
	}
	return nil
}

func TCheckUint8(item string, expect, result uint8) error {
	if expect != result {
		return fmt.Errorf("%s: expect %d, got %d", item, expect, result)
	}
	return nil
}

func TCheckUint16(item string, expect, result uint16) error {
	if expect != result {
		return fmt.Errorf("%s: expect %d, got %d", item, expect, result)
	}
	return nil
}

func TCheckUint32(item string, expect, result uint32) error {
	if expect != result {
		return fmt.Errorf("%s: expect %d, got %d", item, expect, result)
	}
	return nil
}

func TCheckUint64(item string, expect, result uint64) error {
	if expect != result {
		return fmt.Errorf("%s: expect %d, got %d", item, expect, result)
	}
	return nil
}

func TCheckString(item string, expect, result string) error {
	if expect != result {
		return fmt.Errorf("%s: expect %q, got %q", item, expect, result)
	}
	return nil
}

func TCheckBytes(item string, expect, result []byte) error {
	if !bytes.Equal(expect, result) {
		return fmt.Errorf("%s: expect %x, got %x", item, expect, result)
	}
	return nil
}
