package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflows (
				id UUID PRIMARY KEY,
				owner_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				status VARCHAR(50) NOT NULL DEFAULT 'draft',
				trigger_type VARCHAR(50) NOT NULL DEFAULT 'manual',
				trigger_config JSONB NOT NULL DEFAULT '{}',
				steps JSONB NOT NULL DEFAULT '[]',
				execution_count BIGINT NOT NULL DEFAULT 0,
				success_count BIGINT NOT NULL DEFAULT 0,
				failure_count BIGINT NOT NULL DEFAULT 0,
				last_executed_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_workflows_owner ON workflows(owner_id);
			CREATE INDEX IF NOT EXISTS idx_workflows_trigger ON workflows(trigger_type, status);
		`,
		2: `
			CREATE TABLE IF NOT EXISTS executions (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				triggered_by VARCHAR(255) NOT NULL DEFAULT '',
				status VARCHAR(50) NOT NULL,
				input_data JSONB,
				output_data JSONB,
				step_results JSONB NOT NULL DEFAULT '[]',
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				execution_time_ms BIGINT NOT NULL DEFAULT 0,
				error_message TEXT NOT NULL DEFAULT ''
			);

			CREATE INDEX IF NOT EXISTS idx_executions_workflow ON executions(workflow_id, started_at DESC);
		`,
		3: `
			CREATE TABLE IF NOT EXISTS order_notes (
				id BIGSERIAL PRIMARY KEY,
				order_id VARCHAR(255),
				note TEXT,
				author VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS customer_tags (
				id BIGSERIAL PRIMARY KEY,
				customer_id VARCHAR(255),
				tag VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS inventory_adjustments (
				id BIGSERIAL PRIMARY KEY,
				sku VARCHAR(255),
				quantity BIGINT,
				reason TEXT,
				status VARCHAR(50),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
	}
}
