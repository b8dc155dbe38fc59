package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/mozillazg/go-pinyin"
)

var lowerLetters = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// GenerateClientID 生成形如 id-k3j9x0a-lx2q8v1c 的班次 ID，客户端创建的班次不等待远端分配 ID
func GenerateClientID() string {
	random := make([]rune, 7)
	for i := range random {
		random[i] = lowerLetters[mrand.Intn(len(lowerLetters))]
	}
	return "id-" + string(random) + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}

// GenerateSessionID 使用 crypto/rand 生成会话 ID
func GenerateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[mrand.Intn(len(commonSurnames))]
	nameLength := mrand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[mrand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

// RomanizeChineseName 将中文姓名转为拼音，姓和名分开并首字母大写，如 王小明 -> Wang Xiaoming
func RomanizeChineseName(chineseName string) string {
	syllables := pinyin.LazyConvert(chineseName, nil)
	if len(syllables) == 0 {
		return chineseName
	}

	capitalize := func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	}

	surname := capitalize(syllables[0])
	if len(syllables) == 1 {
		return surname
	}
	return surname + " " + capitalize(strings.Join(syllables[1:], ""))
}

var roles = []string{"Nurse", "Doctor", "Receptionist", "Pharmacist", "Technician"}

func GenerateRandomRole() string {
	return roles[mrand.Intn(len(roles))]
}

var shiftTimes = [][2]string{
	{"07:00", "15:00"},
	{"09:00", "17:00"},
	{"15:00", "23:00"},
	{"23:00", "07:00"},
}

// GenerateRandomShiftTime 随机返回一个常见班次的开始和结束时间
func GenerateRandomShiftTime() (string, string) {
	t := shiftTimes[mrand.Intn(len(shiftTimes))]
	return t[0], t[1]
}

// GenerateRandomDateInMonth 在 base 所在月份中随机选一天
func GenerateRandomDateInMonth(base time.Time) time.Time {
	first := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location())
	days := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, mrand.Intn(days))
}

func GenerateRandomNotes() string {
	if mrand.Intn(3) != 0 {
		return ""
	}
	return fmt.Sprintf("seeded #%04d", mrand.Intn(10000))
}
