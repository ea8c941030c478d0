package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 用户模块集成测试
// 覆盖办证(注册)、查询、状态变更

// TestUserRegister 测试用户注册
func TestUserRegister(t *testing.T) {
	RequireServer(t)

	t.Run("正常注册", func(t *testing.T) {
		username := GenerateTestUsername("reg")
		resp := PostJSON(t, BaseURL+"/users", map[string]string{
			"username":  username,
			"email":     username + "@test.com",
			"full_name": "测试读者",
			"phone":     "13800138000",
		})
		assert.Equal(t, 0, resp.Code, "注册应该成功: %s", resp.Message)

		var data UserData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.ID, "用户ID应该大于0")
		assert.Equal(t, username, data.Username)
		assert.Equal(t, "active", data.Status, "新用户默认为active")
		assert.Equal(t, "member", data.Role, "新用户默认为member")

		t.Logf("✓ 注册成功, 用户ID=%d", data.ID)
	})

	t.Run("重复用户名应失败", func(t *testing.T) {
		username := GenerateTestUsername("dup")
		req := map[string]string{
			"username":  username,
			"email":     username + "@test.com",
			"full_name": "测试读者",
		}

		resp := PostJSON(t, BaseURL+"/users", req)
		require.Equal(t, 0, resp.Code, "第一次注册失败: %s", resp.Message)

		resp = PostJSON(t, BaseURL+"/users", req)
		assert.Equal(t, 40005, resp.Code, "重复用户名应该被拒绝")

		t.Logf("✓ 重复用户名正确被拒绝: %s", resp.Message)
	})

	t.Run("用户名太短应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users", map[string]string{
			"username":  "ab",
			"email":     "ab@test.com",
			"full_name": "测试读者",
		})
		assert.NotEqual(t, 0, resp.Code, "用户名太短应该失败")
	})

	t.Run("邮箱格式错误应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users", map[string]string{
			"username":  GenerateTestUsername("bademail"),
			"email":     "not-an-email",
			"full_name": "测试读者",
		})
		assert.NotEqual(t, 0, resp.Code, "邮箱格式错误应该失败")
	})
}

// TestUserGet 测试用户查询
func TestUserGet(t *testing.T) {
	RequireServer(t)

	userID := RegisterTestUser(t, "getter")

	t.Run("查询存在的用户", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/users/%d", BaseURL, userID))
		assert.Equal(t, 0, resp.Code, "查询应该成功: %s", resp.Message)

		var data UserData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)
		assert.Equal(t, userID, data.ID)
	})

	t.Run("查询不存在的用户", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/users/999999")
		assert.Equal(t, 40401, resp.Code, "应该返回用户不存在")
	})
}

// TestUserSetStatus 测试用户状态变更
func TestUserSetStatus(t *testing.T) {
	RequireServer(t)

	userID := RegisterTestUser(t, "status")

	t.Run("停用与恢复", func(t *testing.T) {
		// 停用
		resp := PutJSON(t, fmt.Sprintf("%s/users/%d/status", BaseURL, userID),
			map[string]string{"status": "inactive"})
		assert.Equal(t, 0, resp.Code, "停用应该成功: %s", resp.Message)

		// 变更生效
		getResp := GetJSON(t, fmt.Sprintf("%s/users/%d", BaseURL, userID))
		var data UserData
		err := json.Unmarshal(getResp.Data, &data)
		require.NoError(t, err)
		assert.Equal(t, "inactive", data.Status)

		// 恢复
		resp = PutJSON(t, fmt.Sprintf("%s/users/%d/status", BaseURL, userID),
			map[string]string{"status": "active"})
		assert.Equal(t, 0, resp.Code, "恢复应该成功: %s", resp.Message)

		t.Log("✓ 状态变更成功")
	})

	t.Run("非法状态应失败", func(t *testing.T) {
		resp := PutJSON(t, fmt.Sprintf("%s/users/%d/status", BaseURL, userID),
			map[string]string{"status": "banned"})
		assert.NotEqual(t, 0, resp.Code, "非法状态应该被拒绝")
	})
}
